package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) ListByLeague(ctx context.Context, leagueID, period string) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").
		From("leaderboard_entries").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("period", period),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardEntryFromRow(row))
	}
	return out, nil
}

// ReplaceByLeague soft-deletes the current board and upserts the new entries
// in one transaction, so readers never see a half-replaced board.
func (r *LeaderboardRepository) ReplaceByLeague(ctx context.Context, leagueID, period string, entries []leaderboard.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("leaderboard_entries").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("period", period),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear leaderboard query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}

	for _, entry := range entries {
		insertModel := leaderboardEntryInsertModel{
			LeagueID:         leagueID,
			Period:           period,
			UserID:           entry.UserID,
			TotalPoints:      entry.TotalPoints,
			TotalPredictions: entry.TotalPredictions,
			Accuracy:         entry.Accuracy,
			ExactScores:      entry.ExactScores,
			CorrectOutcomes:  entry.CorrectOutcomes,
			CorrectScorers:   entry.CorrectScorers,
			CurrentStreak:    entry.CurrentStreak,
			BestStreak:       entry.BestStreak,
			LastMatchPoints:  entry.LastMatchPoints,
			Rank:             entry.Rank,
			CalculatedAt:     entry.CalculatedAt,
		}
		query, args, err := qb.InsertModel("leaderboard_entries", insertModel, `ON CONFLICT (league_id, period, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    total_predictions = EXCLUDED.total_predictions,
    accuracy = EXCLUDED.accuracy,
    exact_scores = EXCLUDED.exact_scores,
    correct_outcomes = EXCLUDED.correct_outcomes,
    correct_scorers = EXCLUDED.correct_scorers,
    current_streak = EXCLUDED.current_streak,
    best_streak = EXCLUDED.best_streak,
    last_match_points = EXCLUDED.last_match_points,
    rank = EXCLUDED.rank,
    calculated_at = EXCLUDED.calculated_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard entry user=%s: %w", entry.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) GetEntry(ctx context.Context, leagueID, period, userID string) (leaderboard.Entry, bool, error) {
	query, args, err := qb.Select("*").
		From("leaderboard_entries").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("period", period),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return leaderboard.Entry{}, false, fmt.Errorf("build get leaderboard entry query: %w", err)
	}

	var row leaderboardEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.Entry{}, false, nil
		}
		return leaderboard.Entry{}, false, fmt.Errorf("get leaderboard entry: %w", err)
	}

	return leaderboardEntryFromRow(row), true, nil
}

func leaderboardEntryFromRow(row leaderboardEntryTableModel) leaderboard.Entry {
	return leaderboard.Entry{
		LeagueID:         row.LeagueID,
		Period:           row.Period,
		UserID:           row.UserID,
		TotalPoints:      row.TotalPoints,
		TotalPredictions: row.TotalPredictions,
		Accuracy:         row.Accuracy,
		ExactScores:      row.ExactScores,
		CorrectOutcomes:  row.CorrectOutcomes,
		CorrectScorers:   row.CorrectScorers,
		CurrentStreak:    row.CurrentStreak,
		BestStreak:       row.BestStreak,
		LastMatchPoints:  row.LastMatchPoints,
		Rank:             row.Rank,
		CalculatedAt:     row.CalculatedAt,
	}
}
