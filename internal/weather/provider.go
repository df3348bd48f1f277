package weather

import (
	"context"
	"errors"

	"github.com/i474232898/weatherverse/internal/records"
)

var (
	// ErrUnavailable wraps every failure to obtain weather: missing API key,
	// network error, non-success status or an undecodable response.
	ErrUnavailable = errors.New("weather unavailable")

	// ErrInvalidQuery is returned for queries that name no place or bad input.
	ErrInvalidQuery = errors.New("invalid weather query")
)

// Provider abstracts a current-weather source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	FetchByCoordinates(ctx context.Context, lat, lon float64) (Snapshot, error)
	FetchByCity(ctx context.Context, name string) (Snapshot, error)
}

// History is the part of the record store the service writes to.
type History interface {
	SaveObservation(ctx context.Context, o records.Observation) error
	SaveRecentSearch(ctx context.Context, city string) error
}
