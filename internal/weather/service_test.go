package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherverse/internal/platform/metrics"
	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/store"
)

// fakeProvider returns canned snapshots keyed by city name or "lat,lon".
type fakeProvider struct {
	name  string
	mu    sync.Mutex
	calls int
	snaps map[string]Snapshot
	err   error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) lookup(key string) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Snapshot{}, f.err
	}
	snap, ok := f.snaps[key]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s not found", ErrUnavailable, key)
	}
	return snap, nil
}

func (f *fakeProvider) FetchByCoordinates(_ context.Context, lat, lon float64) (Snapshot, error) {
	return f.lookup(fmt.Sprintf("%g,%g", lat, lon))
}

func (f *fakeProvider) FetchByCity(_ context.Context, name string) (Snapshot, error) {
	return f.lookup(name)
}

func paris() Snapshot {
	return Snapshot{
		City:        "Paris",
		Country:     "FR",
		Temperature: 12,
		Condition:   ConditionRain,
		Description: "light rain",
		Coordinates: &records.Coordinates{Lat: 48.85, Lon: 2.35},
	}
}

func newTestService(t *testing.T, ttl time.Duration, providers ...Provider) (*Service, *records.Records) {
	t.Helper()
	recs := records.New(store.NewMemoryStore(), 0)
	return NewService(recs, providers, ttl), recs
}

func TestCurrentUsesCache(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"Paris": paris()}}
	svc, _ := newTestService(t, time.Minute, p)
	ctx := context.Background()

	first, err := svc.Current(ctx, ByCity("Paris"))
	require.NoError(t, err)
	second, err := svc.Current(ctx, ByCity("  paris "))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "fake", first.Provider)
	assert.False(t, first.FetchedAt.IsZero())

	_, err = svc.Refresh(ctx, ByCity("Paris"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestCurrentWithoutCache(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"Paris": paris()}}
	svc, _ := newTestService(t, 0, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Current(ctx, ByCity("Paris"))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, p.calls)
}

func TestCurrentFallsBackToNextProvider(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: fmt.Errorf("%w: connection refused", ErrUnavailable)}
	backup := &fakeProvider{name: "backup", snaps: map[string]Snapshot{"48.85,2.35": paris()}}
	svc, _ := newTestService(t, 0, broken, backup)

	snap, err := svc.Current(context.Background(), ByCoordinates(48.85, 2.35))
	require.NoError(t, err)
	assert.Equal(t, "backup", snap.Provider)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, []string{"broken", "backup"}, svc.Providers())
}

func TestCurrentAllProvidersFail(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("boom")}
	b := &fakeProvider{name: "b", err: fmt.Errorf("%w: status 500", ErrUnavailable)}
	svc, _ := newTestService(t, 0, a, b)

	_, err := svc.Current(context.Background(), ByCity("Paris"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "boom")
}

func TestCurrentNoProviders(t *testing.T) {
	svc, _ := newTestService(t, 0)

	_, err := svc.Current(context.Background(), ByCity("Paris"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentRejectsEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t, 0, &fakeProvider{name: "fake"})

	_, err := svc.Current(context.Background(), ByCity("   "))
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Current(context.Background(), ByCoordinates(91, 0))
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestSearchRecordsRecentSearch(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"New York": paris()}}
	svc, recs := newTestService(t, 0, p)
	ctx := context.Background()

	_, err := svc.Search(ctx, "  New   York")
	require.NoError(t, err)

	searches, err := recs.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New York"}, searches)

	_, err = svc.Search(ctx, "Atlantis")
	require.Error(t, err)
	searches, err = recs.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New York"}, searches, "failed lookups are not remembered")
}

func TestTrackSavesObservation(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"Paris": paris()}}
	svc, recs := newTestService(t, 0, p)
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	obs, err := svc.Track(ctx, ByCity("Paris"), records.MoodCalm, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, obs.ID)
	assert.Equal(t, fixed, obs.Date)
	assert.Equal(t, "Rain", obs.Condition)
	assert.Equal(t, records.Coordinates{Lat: 48.85, Lon: 2.35}, obs.Coordinates)

	history, err := recs.Observations(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, obs.ID, history[0].ID)

	a, err := recs.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalSearches)
	require.Len(t, a.ProductivityData, 1)
	assert.Equal(t, 4.0, a.ProductivityData[0].Productivity)

	searches, err := recs.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, searches)
}

func TestTrackByCoordinatesSkipsRecentSearches(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"48.85,2.35": paris()}}
	svc, recs := newTestService(t, 0, p)
	ctx := context.Background()

	_, err := svc.Track(ctx, ByCoordinates(48.85, 2.35), "", 0)
	require.NoError(t, err)

	searches, err := recs.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Empty(t, searches)
}

func TestTrackDoesNotPersistOnFailure(t *testing.T) {
	p := &fakeProvider{name: "fake", err: fmt.Errorf("%w: timeout", ErrUnavailable)}
	svc, recs := newTestService(t, 0, p)
	ctx := context.Background()

	_, err := svc.Track(ctx, ByCity("Paris"), "", 0)
	require.ErrorIs(t, err, ErrUnavailable)

	history, err := recs.Observations(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	a, err := recs.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, a.TotalSearches)
}

func TestTrackValidatesAnnotations(t *testing.T) {
	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"Paris": paris()}}
	svc, _ := newTestService(t, 0, p)
	ctx := context.Background()

	_, err := svc.Track(ctx, ByCity("Paris"), records.Mood("grumpy"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Track(ctx, ByCity("Paris"), "", 6)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, 0, p.calls)
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, ByCity("New York").Key(), ByCity(" new  york ").Key())
	assert.Equal(t, "coord:48.8500,2.3500", ByCoordinates(48.85, 2.35).Key())
}

func TestServiceRecordsMetrics(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	p := &fakeProvider{name: "fake", snaps: map[string]Snapshot{"Paris": paris()}}
	svc, _ := newTestService(t, time.Minute, p)
	svc.WithMetrics(m)
	ctx := context.Background()

	_, err = svc.Current(ctx, ByCity("Paris"))
	require.NoError(t, err)
	_, err = svc.Current(ctx, ByCity("Paris"))
	require.NoError(t, err)
	_, err = svc.Track(ctx, ByCity("Paris"), "", 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFetchesTotal.WithLabelValues("fake", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ObservationsTotal))
}
