package records

import (
	"context"
	"slices"
)

// SaveEvent inserts e, or replaces the event with the same id.
func (r *Records) SaveEvent(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := readList[Event](ctx, r.kv, KeyCalendar)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(events, func(existing Event) bool { return existing.ID == e.ID })
	if i >= 0 {
		events[i] = e
	} else {
		events = append(events, e)
	}
	return write(ctx, r.kv, KeyCalendar, events)
}

func (r *Records) Events(ctx context.Context) ([]Event, error) {
	return readList[Event](ctx, r.kv, KeyCalendar)
}

// RemoveEvent drops the event with the given id. Unknown ids are ignored.
func (r *Records) RemoveEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := readList[Event](ctx, r.kv, KeyCalendar)
	if err != nil {
		return err
	}
	events = slices.DeleteFunc(events, func(e Event) bool { return e.ID == id })
	return write(ctx, r.kv, KeyCalendar, events)
}
