// Package records keeps the user's profile, weather history, favorites,
// calendar, notification preferences and analytics in a key-value store.
//
// Every collection is stored as one JSON document under a fixed key, and
// every write rewrites the whole document.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Storage keys, one per collection or singleton.
const (
	KeyUser           = "weatherverse_user"
	KeyHistory        = "weatherverse_weather_history"
	KeyFavorites      = "weatherverse_favorites"
	KeyCalendar       = "weatherverse_calendar"
	KeyNotifications  = "weatherverse_notifications"
	KeyAnalytics      = "weatherverse_analytics"
	KeyRecentSearches = "weatherverse_recent_searches"
)

const (
	// DefaultHistoryLimit is the number of observations retained, newest first.
	DefaultHistoryLimit = 100
	recentSearchLimit   = 10
)

// ErrCorruptData is returned when a stored value is not valid JSON for its collection.
var ErrCorruptData = errors.New("corrupt stored data")

// Storage is the key-value contract the records need. A missing key is
// reported with found == false, not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Records serializes read-modify-write cycles over a Storage.
type Records struct {
	mu           sync.Mutex
	kv           Storage
	historyLimit int
}

// New creates Records over kv. A historyLimit <= 0 uses DefaultHistoryLimit.
func New(kv Storage, historyLimit int) *Records {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Records{
		kv:           kv,
		historyLimit: historyLimit,
	}
}

func decode[T any](key, text string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrCorruptData, key, err)
	}
	return v, nil
}

// read loads the value under key. Absent and corrupt values both yield the
// zero value with found == false; corrupt ones are logged and left for the
// next write to replace.
func read[T any](ctx context.Context, kv Storage, key string) (T, bool, error) {
	var zero T

	text, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	v, err := decode[T](key, text)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("records: treating corrupt value as absent")
		return zero, false, nil
	}
	return v, true, nil
}

// readList is read for collections; it never returns a nil slice.
func readList[T any](ctx context.Context, kv Storage, key string) ([]T, error) {
	list, _, err := read[[]T](ctx, kv, key)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func write(ctx context.Context, kv Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b))
}
