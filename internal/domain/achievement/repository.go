package achievement

import "context"

// Repository stores per-user achievement records keyed userID_definitionID.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	UpsertBatch(ctx context.Context, userID string, records []Record) error
}
