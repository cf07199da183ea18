package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/goalcast/goalcast/internal/domain/prediction"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Get(ctx context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) error {
	query, args, err := qb.InsertModel("predictions", predictionToInsertModel(item), predictionUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction user=%s match=%s: %w", item.UserID, item.MatchID, err)
	}
	return nil
}

func (r *PredictionRepository) ListUnscoredByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("match_id", matchID),
			qb.Expr("status <> ?", prediction.StatusScored),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unscored predictions query: %w", err)
	}

	return r.listPredictions(ctx, query, args)
}

func (r *PredictionRepository) ListScoredByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("status", prediction.StatusScored),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scored predictions query: %w", err)
	}

	return r.listPredictions(ctx, query, args)
}

func (r *PredictionRepository) ListScoredByUserAndMatches(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("status", prediction.StatusScored),
			qb.In("match_id", stringSliceToAny(matchIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scored predictions by matches query: %w", err)
	}

	return r.listPredictions(ctx, query, args)
}

// UpdateBatch writes every row in one transaction so a match's predictions
// flip to scored together or not at all.
func (r *PredictionRepository) UpdateBatch(ctx context.Context, items []prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("predictions", predictionToInsertModel(item), predictionUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build batch upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("batch upsert prediction user=%s match=%s: %w", item.UserID, item.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update predictions tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) listPredictions(ctx context.Context, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

const predictionUpsertSuffix = `ON CONFLICT (user_id, match_id) WHERE deleted_at IS NULL
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    scorers = EXCLUDED.scorers,
    status = EXCLUDED.status,
    points = EXCLUDED.points,
    evaluated = EXCLUDED.evaluated,
    exact_score = EXCLUDED.exact_score,
    correct_outcome = EXCLUDED.correct_outcome,
    scorer_hits = EXCLUDED.scorer_hits,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`

func predictionToInsertModel(item prediction.Prediction) predictionInsertModel {
	model := predictionInsertModel{
		UserID:    item.UserID,
		MatchID:   item.MatchID,
		HomeScore: item.HomeScore,
		AwayScore: item.AwayScore,
		Scorers:   pq.StringArray(item.Scorers),
		Status:    item.Status,
		Points:    item.Points,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Evaluation != nil {
		model.Evaluated = true
		model.ExactScore = item.Evaluation.ExactScore
		model.CorrectOutcome = item.Evaluation.CorrectOutcome
		model.ScorerHits = pq.StringArray(item.Evaluation.ScorerHits)
	}
	return model
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	out := prediction.Prediction{
		UserID:    row.UserID,
		MatchID:   row.MatchID,
		HomeScore: row.HomeScore,
		AwayScore: row.AwayScore,
		Scorers:   []string(row.Scorers),
		Status:    row.Status,
		Points:    row.Points,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Evaluated {
		out.Evaluation = &prediction.Evaluation{
			Points:         row.Points,
			ExactScore:     row.ExactScore,
			CorrectOutcome: row.CorrectOutcome,
			ScorerHits:     []string(row.ScorerHits),
		}
	}
	return out
}
