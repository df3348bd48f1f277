package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap's
// current weather endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(opts Options) *OpenWeatherProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = openWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		httpCfg: opts.httpConfig(),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) FetchByCoordinates(ctx context.Context, lat, lon float64) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return p.fetch(ctx, values)
}

func (p *OpenWeatherProvider) FetchByCity(ctx context.Context, name string) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("q", weather.NormalizeCity(name))
	return p.fetch(ctx, values)
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, values url.Values) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, unavailable(p.name, errMissingAPIKey)
	}

	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, unavailable(p.name, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Visibility float64 `json:"visibility"` // metres
		Dt         int64   `json:"dt"`
		Name       string  `json:"name"`
		Sys        struct {
			Country string `json:"country"`
		} `json:"sys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, unavailable(p.name, fmt.Errorf("decode response: %w", err))
	}

	cond := weather.ConditionUnknown
	var description string
	if len(payload.Weather) > 0 {
		if payload.Weather[0].Main != "" {
			cond = weather.Condition(payload.Weather[0].Main)
		}
		description = payload.Weather[0].Description
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Snapshot{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: math.Round(payload.Main.Temp),
		FeelsLike:   math.Round(payload.Main.FeelsLike),
		Condition:   cond,
		Description: description,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   roundTo(payload.Wind.Speed, 1),
		Visibility:  math.Round(payload.Visibility / 1000),
		Pressure:    payload.Main.Pressure,
		Coordinates: &records.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		Provider:    p.name,
		FetchedAt:   ts,
	}, nil
}
