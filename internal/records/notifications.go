package records

import "context"

func (r *Records) SaveNotificationPreferences(ctx context.Context, p NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return write(ctx, r.kv, KeyNotifications, p)
}

// NotificationPreferences returns the stored preferences, or the defaults.
func (r *Records) NotificationPreferences(ctx context.Context) (NotificationPreferences, error) {
	p, found, err := read[NotificationPreferences](ctx, r.kv, KeyNotifications)
	if err != nil {
		return NotificationPreferences{}, err
	}
	if !found {
		return DefaultNotificationPreferences(), nil
	}
	return p, nil
}
