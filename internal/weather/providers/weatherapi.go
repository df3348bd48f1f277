package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

const weatherAPIURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com. It is
// used as a fallback behind OpenWeatherMap when its key is configured.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(opts Options) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = weatherAPIURL
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// WeatherAPI uses "q" for location; it accepts a city name or "lat,lon".
func (p *WeatherAPIProvider) FetchByCoordinates(ctx context.Context, lat, lon float64) (weather.Snapshot, error) {
	return p.fetch(ctx, fmt.Sprintf("%f,%f", lat, lon))
}

func (p *WeatherAPIProvider) FetchByCity(ctx context.Context, name string) (weather.Snapshot, error) {
	return p.fetch(ctx, weather.NormalizeCity(name))
}

func (p *WeatherAPIProvider) fetch(ctx context.Context, q string) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, unavailable(p.name, errMissingAPIKey)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", q)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name           string  `json:"name"`
			Country        string  `json:"country"`
			Lat            float64 `json:"lat"`
			Lon            float64 `json:"lon"`
			LocaltimeEpoch int64   `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelsLikeC float64 `json:"feelslike_c"`
			Humidity   float64 `json:"humidity"`
			WindKph    float64 `json:"wind_kph"`
			PressureMb float64 `json:"pressure_mb"`
			VisKm      float64 `json:"vis_km"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, unavailable(p.name, fmt.Errorf("decode response: %w", err))
	}

	ts := time.Now().UTC()
	if payload.Location.LocaltimeEpoch > 0 {
		ts = time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	}

	return weather.Snapshot{
		City:        payload.Location.Name,
		Country:     payload.Location.Country,
		Temperature: math.Round(payload.Current.TempC),
		FeelsLike:   math.Round(payload.Current.FeelsLikeC),
		Condition:   mapWeatherAPICondition(payload.Current.Condition.Text),
		Description: strings.ToLower(payload.Current.Condition.Text),
		Humidity:    payload.Current.Humidity,
		// Convert wind from kph to m/s.
		WindSpeed:   roundTo(payload.Current.WindKph/3.6, 1),
		Visibility:  math.Round(payload.Current.VisKm),
		Pressure:    payload.Current.PressureMb,
		Coordinates: &records.Coordinates{Lat: payload.Location.Lat, Lon: payload.Location.Lon},
		Provider:    p.name,
		FetchedAt:   ts,
	}, nil
}

// mapWeatherAPICondition maps free-text conditions onto OpenWeatherMap groups
// so analytics stay keyed consistently across providers.
func mapWeatherAPICondition(text string) weather.Condition {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return weather.ConditionUnknown
	case strings.Contains(t, "thunder"):
		return weather.ConditionThunderstorm
	case strings.Contains(t, "drizzle"):
		return weather.ConditionDrizzle
	case strings.Contains(t, "snow") || strings.Contains(t, "sleet") || strings.Contains(t, "blizzard") || strings.Contains(t, "ice"):
		return weather.ConditionSnow
	case strings.Contains(t, "rain") || strings.Contains(t, "shower"):
		return weather.ConditionRain
	case strings.Contains(t, "mist") || strings.Contains(t, "fog"):
		return weather.ConditionMist
	case strings.Contains(t, "cloud") || strings.Contains(t, "overcast"):
		return weather.ConditionClouds
	case strings.Contains(t, "sunny") || strings.Contains(t, "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
