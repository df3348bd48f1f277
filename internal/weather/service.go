package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/platform/metrics"
	"github.com/i474232898/weatherverse/internal/records"
)

// Service fetches current weather from an ordered list of providers and
// records observations in the history.
type Service struct {
	history   History
	providers []Provider

	cache    *cache.Cache
	cacheTTL time.Duration

	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new Service. A cacheTTL <= 0 disables caching.
func NewService(history History, providers []Provider, cacheTTL time.Duration) *Service {
	s := &Service{
		history:   history,
		providers: providers,
		cacheTTL:  cacheTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// WithMetrics records fetch, cache and observation metrics in m.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// Providers returns the names of the configured providers in order.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Current returns the weather for q, served from the cache when fresh.
func (s *Service) Current(ctx context.Context, q Query) (Snapshot, error) {
	if err := q.Validate(); err != nil {
		return Snapshot{}, err
	}

	if s.cache != nil {
		cached, found := s.cache.Get(q.Key())
		s.metrics.CacheLookup(found)
		if found {
			return cached.(Snapshot), nil
		}
	}
	return s.Refresh(ctx, q)
}

// Refresh fetches q from the providers, bypassing and then replacing the cache.
func (s *Service) Refresh(ctx context.Context, q Query) (Snapshot, error) {
	if err := q.Validate(); err != nil {
		return Snapshot{}, err
	}

	snap, err := s.fetch(ctx, q)
	if err != nil {
		return Snapshot{}, err
	}

	if s.cache != nil {
		s.cache.Set(q.Key(), snap, cache.DefaultExpiration)
	}
	return snap, nil
}

// Search looks up a city by name and remembers it as a recent search.
func (s *Service) Search(ctx context.Context, city string) (Snapshot, error) {
	city = NormalizeCity(city)
	snap, err := s.Current(ctx, ByCity(city))
	if err != nil {
		return Snapshot{}, err
	}

	if s.history != nil {
		if err := s.history.SaveRecentSearch(ctx, city); err != nil {
			log.Warn().Err(err).Str("city", city).Msg("weather: failed to save recent search")
		}
	}
	return snap, nil
}

// Track fetches the weather for q and saves it as an observation annotated
// with mood and productivity (either may be zero). City queries are also
// remembered as recent searches. Nothing is saved when the weather cannot
// be fetched.
func (s *Service) Track(ctx context.Context, q Query, mood records.Mood, productivity int) (records.Observation, error) {
	if mood != "" && !mood.Valid() {
		return records.Observation{}, fmt.Errorf("%w: unknown mood %q", ErrInvalidQuery, mood)
	}
	if productivity < 0 || productivity > 5 {
		return records.Observation{}, fmt.Errorf("%w: productivity must be between 1 and 5", ErrInvalidQuery)
	}
	if s.history == nil {
		return records.Observation{}, errors.New("weather: no history configured")
	}

	var (
		snap Snapshot
		err  error
	)
	if q.Coordinates == nil {
		snap, err = s.Search(ctx, q.City)
	} else {
		snap, err = s.Current(ctx, q)
	}
	if err != nil {
		return records.Observation{}, err
	}

	obs := records.Observation{
		ID:           uuid.NewString(),
		Date:         s.now(),
		City:         snap.City,
		Country:      snap.Country,
		Temperature:  snap.Temperature,
		Condition:    string(snap.Condition),
		Description:  snap.Description,
		Mood:         mood,
		Productivity: productivity,
	}
	switch {
	case q.Coordinates != nil:
		obs.Coordinates = *q.Coordinates
	case snap.Coordinates != nil:
		obs.Coordinates = *snap.Coordinates
	}

	if err := s.history.SaveObservation(ctx, obs); err != nil {
		return records.Observation{}, fmt.Errorf("save observation: %w", err)
	}
	s.metrics.ObservationRecorded()

	log.Debug().
		Str("city", obs.City).
		Str("condition", obs.Condition).
		Str("mood", string(obs.Mood)).
		Int("productivity", obs.Productivity).
		Msg("weather: observation recorded")
	return obs, nil
}

// fetch tries each provider in order and returns the first success.
func (s *Service) fetch(ctx context.Context, q Query) (Snapshot, error) {
	if len(s.providers) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no weather providers configured", ErrUnavailable)
	}

	var errs []error
	for _, p := range s.providers {
		var (
			snap  Snapshot
			err   error
			start = time.Now()
		)
		if c := q.Coordinates; c != nil {
			snap, err = p.FetchByCoordinates(ctx, c.Lat, c.Lon)
		} else {
			snap, err = p.FetchByCity(ctx, NormalizeCity(q.City))
		}
		s.metrics.ObserveFetch(p.Name(), err, time.Since(start))
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Str("query", q.String()).Msg("weather: provider fetch failed")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		if snap.FetchedAt.IsZero() {
			snap.FetchedAt = s.now()
		}
		if snap.Provider == "" {
			snap.Provider = p.Name()
		}
		return snap, nil
	}

	err := errors.Join(errs...)
	if !errors.Is(err, ErrUnavailable) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Snapshot{}, err
}
