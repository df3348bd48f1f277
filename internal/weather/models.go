package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weatherverse/internal/records"
)

// Condition is the high-level weather group reported with a snapshot.
// Values follow OpenWeatherMap's "main" field, which is what history and
// analytics are keyed by.
type Condition string

const (
	ConditionUnknown      Condition = "Unknown"
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
)

// Query identifies a place either by city name or by coordinates.
// Coordinates win when both are set.
type Query struct {
	City        string               `json:"city,omitempty"`
	Coordinates *records.Coordinates `json:"coordinates,omitempty"`
}

// ByCity returns a query for a city name.
func ByCity(name string) Query {
	return Query{City: name}
}

// ByCoordinates returns a query for a coordinate pair.
func ByCoordinates(lat, lon float64) Query {
	return Query{Coordinates: &records.Coordinates{Lat: lat, Lon: lon}}
}

// Validate checks that q names a place.
func (q Query) Validate() error {
	if q.Coordinates == nil && NormalizeCity(q.City) == "" {
		return fmt.Errorf("%w: city or coordinates required", ErrInvalidQuery)
	}
	if c := q.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return fmt.Errorf("%w: coordinates out of range", ErrInvalidQuery)
		}
	}
	return nil
}

// Key returns a canonical cache key for q.
func (q Query) Key() string {
	if c := q.Coordinates; c != nil {
		return fmt.Sprintf("coord:%.4f,%.4f", c.Lat, c.Lon)
	}
	return "city:" + strings.ToLower(NormalizeCity(q.City))
}

func (q Query) String() string {
	if c := q.Coordinates; c != nil {
		return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
	}
	return NormalizeCity(q.City)
}

// NormalizeCity trims name and collapses inner whitespace.
func NormalizeCity(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Snapshot is the current weather at one place, in metric units.
// Temperature and FeelsLike are rounded to whole degrees Celsius, WindSpeed
// to one decimal m/s and Visibility to whole kilometres.
type Snapshot struct {
	City        string               `json:"city"`
	Country     string               `json:"country"`
	Temperature float64              `json:"temperature"`
	FeelsLike   float64              `json:"feelsLike"`
	Condition   Condition            `json:"condition"`
	Description string               `json:"description"`
	Humidity    float64              `json:"humidity"`
	WindSpeed   float64              `json:"windSpeed"`
	Visibility  float64              `json:"visibility"`
	Pressure    float64              `json:"pressure"`
	Coordinates *records.Coordinates `json:"coordinates,omitempty"`

	Provider  string    `json:"provider"`
	FetchedAt time.Time `json:"fetchedAt"` // always UTC
}

// Forecast returns the subset of s stored with calendar events.
func (s Snapshot) Forecast() *records.ForecastSnapshot {
	return &records.ForecastSnapshot{
		Temperature: s.Temperature,
		Condition:   string(s.Condition),
		Description: s.Description,
	}
}
