package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/goalcast/goalcast/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo leagues, members, and schedule into an empty
// database. A database that already has leagues is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, l := range memory.SeedLeagues() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO leagues (public_id, name, competitions)
VALUES (:public_id, :name, :competitions)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":    l.ID,
			"name":         l.Name,
			"competitions": pq.StringArray(l.Competitions),
		})
		if err != nil {
			return fmt.Errorf("bind seed league %s query: %w", l.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
	}

	for leagueID, userIDs := range memory.SeedLeagueMembers() {
		for _, userID := range userIDs {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO league_members (league_public_id, user_id)
VALUES (:league_public_id, :user_id)
ON CONFLICT (league_public_id, user_id) DO NOTHING`, map[string]any{
				"league_public_id": leagueID,
				"user_id":          userID,
			})
			if err != nil {
				return fmt.Errorf("bind seed league member %s query: %w", userID, err)
			}
			sqlQuery = tx.Rebind(sqlQuery)
			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("seed league member %s: %w", userID, err)
			}
		}
	}

	for _, m := range memory.SeedMatches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (public_id, competition, home_team, away_team, kickoff_at, status, season)
VALUES (:public_id, :competition, :home_team, :away_team, :kickoff_at, :status, :season)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   m.ID,
			"competition": m.Competition,
			"home_team":   m.HomeTeam,
			"away_team":   m.AwayTeam,
			"kickoff_at":  m.KickoffAt,
			"status":      m.Status,
			"season":      m.Season,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
