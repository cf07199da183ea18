package postgres

import (
	"time"

	"github.com/lib/pq"
)

type matchResultTableModel struct {
	ID          int64          `db:"id"`
	MatchID     string         `db:"match_id"`
	HomeScore   int            `db:"home_score"`
	AwayScore   int            `db:"away_score"`
	Status      string         `db:"status"`
	Scorers     pq.StringArray `db:"scorers"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	Competition string         `db:"competition"`
	CachedAt    time.Time      `db:"cached_at"`
	LastUpdated time.Time      `db:"last_updated"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

type matchResultInsertModel struct {
	MatchID     string         `db:"match_id"`
	HomeScore   int            `db:"home_score"`
	AwayScore   int            `db:"away_score"`
	Status      string         `db:"status"`
	Scorers     pq.StringArray `db:"scorers"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	Competition string         `db:"competition"`
	CachedAt    time.Time      `db:"cached_at"`
	LastUpdated time.Time      `db:"last_updated"`
}
