package records

import "context"

// SaveUser stores u as the signed-in profile, replacing any previous one.
func (r *Records) SaveUser(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return write(ctx, r.kv, KeyUser, u)
}

// User returns the stored profile, or nil when nobody is signed in.
func (r *Records) User(ctx context.Context) (*User, error) {
	u, found, err := read[User](ctx, r.kv, KeyUser)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// Logout removes the stored profile. Other collections are kept.
func (r *Records) Logout(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Remove(ctx, KeyUser)
}
