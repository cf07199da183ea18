package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goalcast/goalcast/internal/domain/match"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").
		From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	insertModel := matchInsertModel{
		PublicID:    item.ID,
		Competition: item.Competition,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		KickoffAt:   item.KickoffAt,
		Status:      item.Status,
		Season:      item.Season,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    competition = EXCLUDED.competition,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    season = EXCLUDED.season,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match %s: %w", item.ID, err)
	}
	return nil
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competition string) ([]match.Match, error) {
	query, args, err := qb.Select("*").
		From("matches").
		Where(
			qb.Eq("competition", competition),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) ListRecentFinished(ctx context.Context, since time.Time, limit int) ([]match.Match, error) {
	builder := qb.Select("*").
		From("matches").
		Where(
			qb.Eq("status", match.StatusFinished),
			qb.Expr("kickoff_at >= ?", since),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at DESC", "public_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent finished matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent finished matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.PublicID,
		Competition: row.Competition,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		KickoffAt:   row.KickoffAt,
		Status:      row.Status,
		Season:      row.Season,
	}
}
