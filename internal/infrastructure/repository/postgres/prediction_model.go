package postgres

import (
	"time"

	"github.com/lib/pq"
)

type predictionTableModel struct {
	ID             int64          `db:"id"`
	UserID         string         `db:"user_id"`
	MatchID        string         `db:"match_id"`
	HomeScore      *int           `db:"home_score"`
	AwayScore      *int           `db:"away_score"`
	Scorers        pq.StringArray `db:"scorers"`
	Status         string         `db:"status"`
	Points         int            `db:"points"`
	Evaluated      bool           `db:"evaluated"`
	ExactScore     bool           `db:"exact_score"`
	CorrectOutcome bool           `db:"correct_outcome"`
	ScorerHits     pq.StringArray `db:"scorer_hits"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type predictionInsertModel struct {
	UserID         string         `db:"user_id"`
	MatchID        string         `db:"match_id"`
	HomeScore      *int           `db:"home_score"`
	AwayScore      *int           `db:"away_score"`
	Scorers        pq.StringArray `db:"scorers"`
	Status         string         `db:"status"`
	Points         int            `db:"points"`
	Evaluated      bool           `db:"evaluated"`
	ExactScore     bool           `db:"exact_score"`
	CorrectOutcome bool           `db:"correct_outcome"`
	ScorerHits     pq.StringArray `db:"scorer_hits"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}
