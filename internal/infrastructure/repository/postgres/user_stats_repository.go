package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalcast/goalcast/internal/domain/userstats"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type UserStatsRepository struct {
	db *sqlx.DB
}

func NewUserStatsRepository(db *sqlx.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) Get(ctx context.Context, userID string) (userstats.Statistics, bool, error) {
	query, args, err := qb.Select("*").
		From("user_statistics").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return userstats.Statistics{}, false, fmt.Errorf("build get user statistics query: %w", err)
	}

	var row userStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userstats.Statistics{}, false, nil
		}
		return userstats.Statistics{}, false, fmt.Errorf("get user statistics: %w", err)
	}

	return userstats.Statistics{
		UserID:           row.UserID,
		TotalPoints:      row.TotalPoints,
		TotalPredictions: row.TotalPredictions,
		CorrectOutcomes:  row.CorrectOutcomes,
		ExactScores:      row.ExactScores,
		CurrentStreak:    row.CurrentStreak,
		BestStreak:       row.BestStreak,
		Accuracy:         row.Accuracy,
		UpdatedAt:        row.StatsUpdatedAt,
	}, true, nil
}

func (r *UserStatsRepository) Upsert(ctx context.Context, stats userstats.Statistics) error {
	insertModel := userStatsInsertModel{
		UserID:           stats.UserID,
		TotalPoints:      stats.TotalPoints,
		TotalPredictions: stats.TotalPredictions,
		CorrectOutcomes:  stats.CorrectOutcomes,
		ExactScores:      stats.ExactScores,
		CurrentStreak:    stats.CurrentStreak,
		BestStreak:       stats.BestStreak,
		Accuracy:         stats.Accuracy,
		StatsUpdatedAt:   stats.UpdatedAt,
	}
	query, args, err := qb.InsertModel("user_statistics", insertModel, `ON CONFLICT (user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    total_predictions = EXCLUDED.total_predictions,
    correct_outcomes = EXCLUDED.correct_outcomes,
    exact_scores = EXCLUDED.exact_scores,
    current_streak = EXCLUDED.current_streak,
    best_streak = EXCLUDED.best_streak,
    accuracy = EXCLUDED.accuracy,
    stats_updated_at = EXCLUDED.stats_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert user statistics query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user statistics %s: %w", stats.UserID, err)
	}
	return nil
}
