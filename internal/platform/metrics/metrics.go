// Package metrics provides the Prometheus metrics of the weather service.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics records nothing, so
// callers never need to check whether metrics are enabled.
type Metrics struct {
	ProviderFetchesTotal  *prometheus.CounterVec   // fetches by provider and status
	ProviderFetchDuration *prometheus.HistogramVec // latency by provider
	CacheLookupsTotal     *prometheus.CounterVec   // snapshot cache lookups by result
	ObservationsTotal     prometheus.Counter
	AlertsRaisedTotal     *prometheus.CounterVec // alerts by kind
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ProviderFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weatherverse_provider_fetches_total",
				Help: "Weather provider fetches by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),
		ProviderFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weatherverse_provider_fetch_duration_seconds",
				Help:    "Time taken by weather provider fetches",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weatherverse_cache_lookups_total",
				Help: "Weather snapshot cache lookups by result",
			},
			[]string{"result"}, // hit, miss
		),
		ObservationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weatherverse_observations_total",
			Help: "Weather observations saved to the history",
		}),
		AlertsRaisedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weatherverse_alerts_raised_total",
				Help: "Alerts raised by favorite location checks, by kind",
			},
			[]string{"kind"},
		),
	}

	var errs []error
	for _, c := range []prometheus.Collector{
		m.ProviderFetchesTotal,
		m.ProviderFetchDuration,
		m.CacheLookupsTotal,
		m.ObservationsTotal,
		m.AlertsRaisedTotal,
	} {
		errs = append(errs, reg.Register(c))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return m, nil
}

// ObserveFetch records one provider fetch.
func (m *Metrics) ObserveFetch(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ProviderFetchesTotal.WithLabelValues(provider, status).Inc()
	m.ProviderFetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservationRecorded() {
	if m == nil {
		return
	}
	m.ObservationsTotal.Inc()
}

func (m *Metrics) AlertRaised(kind string) {
	if m == nil {
		return
	}
	m.AlertsRaisedTotal.WithLabelValues(kind).Inc()
}
