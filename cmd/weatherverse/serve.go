package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/weatherverse/internal/alerts"
	httpapi "github.com/i474232898/weatherverse/internal/api/http"
	"github.com/i474232898/weatherverse/internal/assistant"
	"github.com/i474232898/weatherverse/internal/config"
	applog "github.com/i474232898/weatherverse/internal/platform/logger"
	"github.com/i474232898/weatherverse/internal/platform/metrics"
	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/scheduler"
	"github.com/i474232898/weatherverse/internal/store"
	"github.com/i474232898/weatherverse/internal/travel"
	"github.com/i474232898/weatherverse/internal/weather"
	"github.com/i474232898/weatherverse/internal/weather/providers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the favorite refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// openRecords loads configuration and opens the record collections. The
// caller must close the returned backend.
func openRecords(ctx context.Context) (*config.AppConfig, *records.Records, store.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	applog.New("weatherverse", cfg.LogLevel)

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, records.New(backend, cfg.HistoryLimit), backend, nil
}

func serve(ctx context.Context) error {
	cfg, recs, backend, err := openRecords(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()
	cfg.Warn()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// OpenWeatherMap is always first; WeatherAPI only backs it up when keyed.
	provs := []weather.Provider{
		providers.NewOpenWeatherProvider(providers.Options{
			Client:     httpClient,
			APIKey:     cfg.OpenWeatherAPIKey,
			MaxRetries: cfg.ProviderMaxRetries,
		}),
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(providers.Options{
			Client:     httpClient,
			APIKey:     cfg.WeatherAPIKey,
			MaxRetries: cfg.ProviderMaxRetries,
		}))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	service := weather.NewService(recs, provs, cfg.WeatherCacheTTL).WithMetrics(m)
	monitor := alerts.NewMonitor(recs, service).WithMetrics(m)

	// Scheduler that periodically refreshes favorites and evaluates alerts.
	sched := scheduler.New(cfg.RefreshInterval, monitor)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherverse",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Records:   recs,
		Weather:   service,
		Planner:   travel.NewPlanner(service),
		Assistant: assistant.New(service),
		Alerts:    monitor,
		Gatherer:  registry,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Strs("providers", service.Providers()).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	return nil
}
