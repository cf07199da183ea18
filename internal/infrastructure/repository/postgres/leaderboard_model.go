package postgres

import "time"

type leaderboardEntryTableModel struct {
	ID               int64      `db:"id"`
	LeagueID         string     `db:"league_id"`
	Period           string     `db:"period"`
	UserID           string     `db:"user_id"`
	TotalPoints      int        `db:"total_points"`
	TotalPredictions int        `db:"total_predictions"`
	Accuracy         float64    `db:"accuracy"`
	ExactScores      int        `db:"exact_scores"`
	CorrectOutcomes  int        `db:"correct_outcomes"`
	CorrectScorers   int        `db:"correct_scorers"`
	CurrentStreak    int        `db:"current_streak"`
	BestStreak       int        `db:"best_streak"`
	LastMatchPoints  int        `db:"last_match_points"`
	Rank             int        `db:"rank"`
	CalculatedAt     time.Time  `db:"calculated_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type leaderboardEntryInsertModel struct {
	LeagueID         string    `db:"league_id"`
	Period           string    `db:"period"`
	UserID           string    `db:"user_id"`
	TotalPoints      int       `db:"total_points"`
	TotalPredictions int       `db:"total_predictions"`
	Accuracy         float64   `db:"accuracy"`
	ExactScores      int       `db:"exact_scores"`
	CorrectOutcomes  int       `db:"correct_outcomes"`
	CorrectScorers   int       `db:"correct_scorers"`
	CurrentStreak    int       `db:"current_streak"`
	BestStreak       int       `db:"best_streak"`
	LastMatchPoints  int       `db:"last_match_points"`
	Rank             int       `db:"rank"`
	CalculatedAt     time.Time `db:"calculated_at"`
}
