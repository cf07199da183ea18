package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/league"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	if leagueID == leaderboard.GeneralLeague {
		return league.League{ID: leaderboard.GeneralLeague, Name: "General"}, true, nil
	}

	query, args, err := qb.Select("*").
		From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return league.League{
		ID:           row.PublicID,
		Name:         row.Name,
		Competitions: []string(row.Competitions),
	}, true, nil
}

// ListMemberIDs for the general league spans every member of every league.
func (r *LeagueRepository) ListMemberIDs(ctx context.Context, leagueID string) ([]string, error) {
	builder := qb.Select("DISTINCT user_id").
		From("league_members").
		Where(qb.IsNull("deleted_at")).
		OrderBy("user_id")
	if leagueID != leaderboard.GeneralLeague {
		builder = builder.Where(qb.Eq("league_public_id", leagueID))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	return ids, nil
}
