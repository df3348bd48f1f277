package records

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"
)

// SaveObservation prepends o to the history, evicts anything beyond the
// history limit and then updates the analytics summary once.
//
// The analytics update is best effort: its failure is logged and does not
// undo the history write.
func (r *Records) SaveObservation(ctx context.Context, o Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history, err := readList[Observation](ctx, r.kv, KeyHistory)
	if err != nil {
		return err
	}

	history = slices.Insert(history, 0, o)
	if len(history) > r.historyLimit {
		history = history[:r.historyLimit]
	}

	if err := write(ctx, r.kv, KeyHistory, history); err != nil {
		return err
	}

	if err := r.recordObservation(ctx, o); err != nil {
		log.Error().Err(err).Str("observation", o.ID).Msg("records: analytics update failed")
	}
	return nil
}

// Observations returns the retained history, newest first.
func (r *Records) Observations(ctx context.Context) ([]Observation, error) {
	return readList[Observation](ctx, r.kv, KeyHistory)
}

// SaveRecentSearch moves city to the front of the recent searches,
// dropping duplicates and keeping the ten most recent.
func (r *Records) SaveRecentSearch(ctx context.Context, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	searches, err := readList[string](ctx, r.kv, KeyRecentSearches)
	if err != nil {
		return err
	}

	searches = slices.DeleteFunc(searches, func(s string) bool { return s == city })
	searches = slices.Insert(searches, 0, city)
	if len(searches) > recentSearchLimit {
		searches = searches[:recentSearchLimit]
	}
	return write(ctx, r.kv, KeyRecentSearches, searches)
}

// RecentSearches returns recently searched city names, newest first.
func (r *Records) RecentSearches(ctx context.Context) ([]string, error) {
	return readList[string](ctx, r.kv, KeyRecentSearches)
}
