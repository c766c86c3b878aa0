package profiles

import "context"

// Repo persists one profile per user.
type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Put(ctx context.Context, p Profile) error
}
