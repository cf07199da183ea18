package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/goalcast/goalcast/internal/domain/matchresult"
	qb "github.com/goalcast/goalcast/internal/platform/querybuilder"
)

type MatchResultRepository struct {
	db *sqlx.DB
}

func NewMatchResultRepository(db *sqlx.DB) *MatchResultRepository {
	return &MatchResultRepository{db: db}
}

func (r *MatchResultRepository) Get(ctx context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	query, args, err := qb.Select("*").
		From("match_results").
		Where(
			qb.Eq("match_id", matchID),
			qb.Expr("cached_at > NOW() - make_interval(secs => ?)", matchresult.CacheTTL.Seconds()),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return matchresult.MatchResult{}, false, fmt.Errorf("build get match result query: %w", err)
	}

	var row matchResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			err = r.db.GetContext(ctx, &row, query, args...)
		}
		if err != nil {
			if isNotFound(err) {
				return matchresult.MatchResult{}, false, nil
			}
			return matchresult.MatchResult{}, false, fmt.Errorf("get match result: %w", err)
		}
	}

	return matchResultFromRow(row), true, nil
}

// GetMany fetches in ReadChunkSize batches; expired and missing ids are
// absent from the returned map.
func (r *MatchResultRepository) GetMany(ctx context.Context, matchIDs []string) (map[string]matchresult.MatchResult, error) {
	out := make(map[string]matchresult.MatchResult, len(matchIDs))

	for start := 0; start < len(matchIDs); start += matchresult.ReadChunkSize {
		end := start + matchresult.ReadChunkSize
		if end > len(matchIDs) {
			end = len(matchIDs)
		}

		query, args, err := qb.Select("*").
			From("match_results").
			Where(
				qb.In("match_id", stringSliceToAny(matchIDs[start:end])),
				qb.Expr("cached_at > NOW() - make_interval(secs => ?)", matchresult.CacheTTL.Seconds()),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build get match results chunk query: %w", err)
		}

		var rows []matchResultTableModel
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("get match results chunk: %w", err)
		}
		for _, row := range rows {
			out[row.MatchID] = matchResultFromRow(row)
		}
	}

	return out, nil
}

// Put merges into any existing row: empty incoming team or competition fields
// keep the stored values so partial provider payloads cannot blank an entry.
func (r *MatchResultRepository) Put(ctx context.Context, result matchresult.MatchResult) error {
	cachedAt := result.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now().UTC()
	}
	insertModel := matchResultInsertModel{
		MatchID:     result.MatchID,
		HomeScore:   result.HomeScore,
		AwayScore:   result.AwayScore,
		Status:      result.Status,
		Scorers:     pq.StringArray(result.Scorers),
		HomeTeam:    result.HomeTeam,
		AwayTeam:    result.AwayTeam,
		Competition: result.Competition,
		CachedAt:    cachedAt,
		LastUpdated: result.LastUpdated,
	}

	query, args, err := qb.InsertModel("match_results", insertModel, `ON CONFLICT (match_id) WHERE deleted_at IS NULL
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    scorers = CASE WHEN cardinality(EXCLUDED.scorers) > 0 THEN EXCLUDED.scorers ELSE match_results.scorers END,
    home_team = COALESCE(NULLIF(EXCLUDED.home_team, ''), match_results.home_team),
    away_team = COALESCE(NULLIF(EXCLUDED.away_team, ''), match_results.away_team),
    competition = COALESCE(NULLIF(EXCLUDED.competition, ''), match_results.competition),
    cached_at = EXCLUDED.cached_at,
    last_updated = EXCLUDED.last_updated,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert match result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match result %s: %w", result.MatchID, err)
	}
	return nil
}

func (r *MatchResultRepository) GetStale(ctx context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	query, args, err := qb.Select("*").
		From("match_results").
		Where(
			qb.Eq("match_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return matchresult.MatchResult{}, false, fmt.Errorf("build get stale match result query: %w", err)
	}

	var row matchResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchresult.MatchResult{}, false, nil
		}
		return matchresult.MatchResult{}, false, fmt.Errorf("get stale match result: %w", err)
	}

	return matchResultFromRow(row), true, nil
}

func matchResultFromRow(row matchResultTableModel) matchresult.MatchResult {
	return matchresult.MatchResult{
		MatchID:     row.MatchID,
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		Status:      row.Status,
		Scorers:     []string(row.Scorers),
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Competition: row.Competition,
		CachedAt:    row.CachedAt,
		LastUpdated: row.LastUpdated,
	}
}
