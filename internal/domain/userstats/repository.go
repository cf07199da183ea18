package userstats

import "context"

// Repository is a per-user document store. Updates are read-modify-write and
// must be serialized per user by the caller; no cross-user coordination is
// needed.
type Repository interface {
	Get(ctx context.Context, userID string) (Statistics, bool, error)
	Upsert(ctx context.Context, stats Statistics) error
}
