package match

import (
	"context"
	"time"
)

// Repository stores the ingested match schedule.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	ListByCompetition(ctx context.Context, competition string) ([]Match, error)
	// ListRecentFinished returns finished matches with kickoff inside the
	// window, newest first, capped at limit.
	ListRecentFinished(ctx context.Context, since time.Time, limit int) ([]Match, error)
}
