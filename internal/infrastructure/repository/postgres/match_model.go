package postgres

import "time"

type matchTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Competition string     `db:"competition"`
	HomeTeam    string     `db:"home_team"`
	AwayTeam    string     `db:"away_team"`
	KickoffAt   time.Time  `db:"kickoff_at"`
	Status      string     `db:"status"`
	Season      string     `db:"season"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID    string    `db:"public_id"`
	Competition string    `db:"competition"`
	HomeTeam    string    `db:"home_team"`
	AwayTeam    string    `db:"away_team"`
	KickoffAt   time.Time `db:"kickoff_at"`
	Status      string    `db:"status"`
	Season      string    `db:"season"`
}
