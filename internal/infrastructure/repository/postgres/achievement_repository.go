package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type AchievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]achievement.Record, error) {
	query, args, err := qb.Select("*").
		From("user_achievements").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("achievement_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list achievements query: %w", err)
	}

	var rows []achievementRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	out := make([]achievement.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, achievement.Record{
			ID:           row.AchievementID,
			Unlocked:     row.Unlocked,
			UnlockedDate: row.UnlockedDate,
			Progress:     row.Progress,
		})
	}
	return out, nil
}

// UpsertBatch enforces sticky unlocks in the conflict clause: a row that is
// already unlocked keeps its unlocked flag and original date regardless of
// what the recomputation wrote.
func (r *AchievementRepository) UpsertBatch(ctx context.Context, userID string, records []achievement.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert achievements: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, record := range records {
		insertModel := achievementRecordInsertModel{
			UserID:        userID,
			AchievementID: record.ID,
			Unlocked:      record.Unlocked,
			UnlockedDate:  record.UnlockedDate,
			Progress:      record.Progress,
		}
		query, args, err := qb.InsertModel("user_achievements", insertModel, `ON CONFLICT (user_id, achievement_id) WHERE deleted_at IS NULL
DO UPDATE SET
    unlocked = user_achievements.unlocked OR EXCLUDED.unlocked,
    unlocked_date = COALESCE(user_achievements.unlocked_date, EXCLUDED.unlocked_date),
    progress = EXCLUDED.progress,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert achievement query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert achievement %s user=%s: %w", record.ID, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert achievements tx: %w", err)
	}
	return nil
}
