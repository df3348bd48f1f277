// Package alerts evaluates the notification preferences against the current
// weather at each favorite location.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/platform/metrics"
	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

// Kind identifies the rule that raised an alert.
type Kind string

const (
	KindHighTemperature Kind = "high_temperature"
	KindLowTemperature  Kind = "low_temperature"
	KindThreshold       Kind = "threshold"
	KindCondition       Kind = "condition"
)

// Alert is one triggered rule for one favorite.
type Alert struct {
	Kind        Kind    `json:"kind"`
	FavoriteID  string  `json:"favoriteId"`
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Message     string  `json:"message"`
}

// Result is the outcome of one evaluation run.
type Result struct {
	CheckedAt time.Time `json:"checkedAt"`
	Checked   int       `json:"checked"`
	Skipped   int       `json:"skipped"`
	Alerts    []Alert   `json:"alerts"`
}

// Source provides the stored favorites and preferences.
type Source interface {
	Favorites(ctx context.Context) ([]records.Favorite, error)
	NotificationPreferences(ctx context.Context) (records.NotificationPreferences, error)
}

// Refresher fetches fresh weather, bypassing any cache.
type Refresher interface {
	Refresh(ctx context.Context, q weather.Query) (weather.Snapshot, error)
}

type Monitor struct {
	source  Source
	weather Refresher

	mu     sync.RWMutex
	latest Result

	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMonitor(source Source, refresher Refresher) *Monitor {
	return &Monitor{
		source:  source,
		weather: refresher,
		latest:  Result{Alerts: []Alert{}},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics counts raised alerts in m.
func (m *Monitor) WithMetrics(mt *metrics.Metrics) *Monitor {
	m.metrics = mt
	return m
}

// Latest returns the result of the most recent Check.
func (m *Monitor) Latest() Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Check refreshes the weather of every favorite and evaluates the alert
// rules. Favorites whose weather cannot be fetched are skipped.
func (m *Monitor) Check(ctx context.Context) (Result, error) {
	prefs, err := m.source.NotificationPreferences(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load notification preferences: %w", err)
	}

	res := Result{CheckedAt: m.now(), Alerts: []Alert{}}
	if prefs.FavoriteLocationAlerts {
		favorites, err := m.source.Favorites(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("load favorites: %w", err)
		}

		for _, f := range favorites {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}

			snap, err := m.weather.Refresh(ctx, favoriteQuery(f))
			if err != nil {
				log.Warn().Err(err).Str("favorite", f.ID).Str("city", f.City).Msg("alerts: skipping favorite")
				res.Skipped++
				continue
			}
			res.Checked++
			for _, a := range Evaluate(prefs, f, snap) {
				m.metrics.AlertRaised(string(a.Kind))
				res.Alerts = append(res.Alerts, a)
			}
		}
	}

	m.mu.Lock()
	m.latest = res
	m.mu.Unlock()

	log.Debug().Int("checked", res.Checked).Int("skipped", res.Skipped).Int("alerts", len(res.Alerts)).Msg("alerts: check completed")
	return res, nil
}

func favoriteQuery(f records.Favorite) weather.Query {
	if f.Coordinates != (records.Coordinates{}) {
		return weather.ByCoordinates(f.Coordinates.Lat, f.Coordinates.Lon)
	}
	return weather.ByCity(f.City)
}

// Evaluate applies the alert rules to one favorite's weather.
func Evaluate(prefs records.NotificationPreferences, f records.Favorite, snap weather.Snapshot) []Alert {
	name := f.CustomName
	if name == "" {
		name = f.Name
	}
	if name == "" {
		name = f.City
	}

	newAlert := func(kind Kind, format string, args ...any) Alert {
		return Alert{
			Kind:        kind,
			FavoriteID:  f.ID,
			Location:    name,
			Temperature: snap.Temperature,
			Condition:   string(snap.Condition),
			Message:     fmt.Sprintf(format, args...),
		}
	}

	var out []Alert
	t := snap.Temperature
	if prefs.TemperatureAlerts && f.Notifications.TemperatureAlerts {
		th := prefs.Thresholds
		if t >= th.HighTemp {
			out = append(out, newAlert(KindHighTemperature, "High temperature in %s: %g°C", name, t))
		}
		if t <= th.LowTemp {
			out = append(out, newAlert(KindLowTemperature, "Low temperature in %s: %g°C", name, t))
		}
		if t > f.Notifications.Threshold {
			out = append(out, newAlert(KindThreshold, "%s is above your %g°C threshold: %g°C", name, f.Notifications.Threshold, t))
		}
	}

	if prefs.ConditionAlerts && f.Notifications.ConditionAlerts {
		cond := strings.ToLower(string(snap.Condition))
		desc := strings.ToLower(snap.Description)
		for _, watched := range prefs.Thresholds.Conditions {
			w := strings.ToLower(strings.TrimSpace(watched))
			if w == "" {
				continue
			}
			if strings.Contains(cond, w) || strings.Contains(desc, w) {
				out = append(out, newAlert(KindCondition, "%s expected in %s: %s", watched, name, snap.Description))
				break
			}
		}
	}
	return out
}
