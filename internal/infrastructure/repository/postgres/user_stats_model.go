package postgres

import "time"

type userStatsTableModel struct {
	ID               int64      `db:"id"`
	UserID           string     `db:"user_id"`
	TotalPoints      int        `db:"total_points"`
	TotalPredictions int        `db:"total_predictions"`
	CorrectOutcomes  int        `db:"correct_outcomes"`
	ExactScores      int        `db:"exact_scores"`
	CurrentStreak    int        `db:"current_streak"`
	BestStreak       int        `db:"best_streak"`
	Accuracy         float64    `db:"accuracy"`
	StatsUpdatedAt   time.Time  `db:"stats_updated_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type userStatsInsertModel struct {
	UserID           string    `db:"user_id"`
	TotalPoints      int       `db:"total_points"`
	TotalPredictions int       `db:"total_predictions"`
	CorrectOutcomes  int       `db:"correct_outcomes"`
	ExactScores      int       `db:"exact_scores"`
	CurrentStreak    int       `db:"current_streak"`
	BestStreak       int       `db:"best_streak"`
	Accuracy         float64   `db:"accuracy"`
	StatsUpdatedAt   time.Time `db:"stats_updated_at"`
}
