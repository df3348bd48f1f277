package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/store"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration
	// ProviderMaxRetries is 0 unless set: failed fetches are not retried.
	ProviderMaxRetries int
	// WeatherCacheTTL is how long a fetched snapshot is served from memory (0 disables).
	WeatherCacheTTL time.Duration
	// RefreshInterval controls how often favorite locations are refreshed.
	RefreshInterval time.Duration

	Store        store.Options
	HistoryLimit int

	Port     string
	LogLevel string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("config: no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", records.DefaultHistoryLimit)

	cfg.Store = store.Options{
		Driver:     strings.ToLower(getenvDefault("STORE_DRIVER", "sqlite")),
		SQLitePath: getenvDefault("SQLITE_PATH", "data/weatherverse.db"),
		Redis: store.RedisOptions{
			Addr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
			Prefix:   os.Getenv("REDIS_PREFIX"),
		},
	}
	switch cfg.Store.Driver {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want memory, sqlite or redis", cfg.Store.Driver)
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	return cfg, nil
}

// Warn logs settings that leave the service degraded.
func (c *AppConfig) Warn() {
	if c.OpenWeatherAPIKey == "" {
		log.Warn().Msg("config: OPENWEATHER_API_KEY is not set; weather lookups will fail")
	}
	if c.WeatherAPIKey == "" {
		log.Info().Msg("config: WEATHERAPI_API_KEY is not set; no fallback provider")
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("config: not an integer, using default")
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
