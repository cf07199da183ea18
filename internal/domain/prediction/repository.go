package prediction

import "context"

// Repository exposes prediction storage. UpdateBatch must apply all rows or
// none: a match is never left partially scored.
type Repository interface {
	Get(ctx context.Context, userID, matchID string) (Prediction, bool, error)
	Upsert(ctx context.Context, item Prediction) error
	ListUnscoredByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListScoredByUser(ctx context.Context, userID string) ([]Prediction, error)
	ListScoredByUserAndMatches(ctx context.Context, userID string, matchIDs []string) ([]Prediction, error)
	UpdateBatch(ctx context.Context, items []Prediction) error
}
