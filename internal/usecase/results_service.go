package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

const defaultMaxAPICalls = 10

// ResultGateway is the sports-data provider surface this service consumes.
type ResultGateway interface {
	UpcomingMatches(ctx context.Context, comps []competition.Competition, from, to time.Time) ([]match.Match, error)
	FinishedMatches(ctx context.Context, comps []competition.Competition, limit int) ([]matchresult.MatchResult, error)
	EventResult(ctx context.Context, matchID string) (matchresult.MatchResult, bool, error)
}

// MatchScorer hands a finalized result to the scoring pipeline.
type MatchScorer interface {
	ProcessMatchResult(ctx context.Context, matchID string, result matchresult.MatchResult) (int, error)
}

// UpdateSummary reports one recent-results pass: results newly cached,
// predictions scored, and per-match failure messages.
type UpdateSummary struct {
	Updated   int
	Processed int
	Errors    []string
}

type ResultsService struct {
	cacheRepo    matchresult.Repository
	gateway      ResultGateway
	matchRepo    match.Repository
	scorer       MatchScorer
	competitions []competition.Competition
	maxAPICalls  int
	logger       *logging.Logger
	now          func() time.Time
}

func NewResultsService(
	cacheRepo matchresult.Repository,
	gateway ResultGateway,
	matchRepo match.Repository,
	scorer MatchScorer,
	competitions []competition.Competition,
	maxAPICalls int,
	logger *logging.Logger,
) *ResultsService {
	if maxAPICalls <= 0 {
		maxAPICalls = defaultMaxAPICalls
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultsService{
		cacheRepo:    cacheRepo,
		gateway:      gateway,
		matchRepo:    matchRepo,
		scorer:       scorer,
		competitions: competitions,
		maxAPICalls:  maxAPICalls,
		logger:       logger,
		now:          time.Now,
	}
}

// FetchMatchResult serves one result cache-first. On a provider failure an
// expired cache entry, when one exists, is served instead of the error.
func (s *ResultsService) FetchMatchResult(ctx context.Context, matchID string, forceRefresh bool) (matchresult.MatchResult, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.FetchMatchResult")
	defer span.End()

	if matchID == "" {
		return matchresult.MatchResult{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if !forceRefresh {
		cached, ok, err := s.cacheRepo.Get(ctx, matchID)
		if err != nil {
			return matchresult.MatchResult{}, false, fmt.Errorf("%w: read result cache for match %s: %v", ErrPersistence, matchID, err)
		}
		if ok {
			return cached, true, nil
		}
	}

	result, ok, err := s.gateway.EventResult(ctx, matchID)
	if err != nil {
		stale, haveStale, staleErr := s.cacheRepo.GetStale(ctx, matchID)
		if staleErr == nil && haveStale {
			s.logger.WarnContext(ctx, "serving stale result after provider failure", "match_id", matchID, "error", err)
			return stale, true, nil
		}
		return matchresult.MatchResult{}, false, err
	}
	if !ok {
		return matchresult.MatchResult{}, false, nil
	}

	if err := s.cacheRepo.Put(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "store fetched result", "match_id", matchID, "error", err)
	}
	return result, true, nil
}

// FetchMultipleResults serves a batch cache-first, then spends at most
// maxAPICalls provider lookups on the misses. Matches beyond the budget and
// matches whose fetch fails are simply absent from the returned map.
func (s *ResultsService) FetchMultipleResults(ctx context.Context, matchIDs []string, forceRefresh bool, maxAPICalls int) (map[string]matchresult.MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.FetchMultipleResults")
	defer span.End()

	if maxAPICalls <= 0 {
		maxAPICalls = s.maxAPICalls
	}

	ids := dedupeIDs(matchIDs)
	out := make(map[string]matchresult.MatchResult, len(ids))
	misses := ids

	if !forceRefresh {
		cached, err := s.cacheRepo.GetMany(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: read result cache: %v", ErrPersistence, err)
		}
		misses = misses[:0]
		for _, id := range ids {
			if hit, ok := cached[id]; ok {
				out[id] = hit
				continue
			}
			misses = append(misses, id)
		}
	}

	spent := 0
	for _, id := range misses {
		if spent >= maxAPICalls {
			s.logger.DebugContext(ctx, "api budget exhausted, leaving matches unresolved",
				"budget", maxAPICalls, "remaining", len(misses)-spent)
			break
		}
		spent++

		result, ok, err := s.gateway.EventResult(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			s.logger.WarnContext(ctx, "fetch result", "match_id", id, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := s.cacheRepo.Put(ctx, result); err != nil {
			s.logger.ErrorContext(ctx, "store fetched result", "match_id", id, "error", err)
		}
		out[id] = result
	}

	return out, nil
}

// UpdateRecentResults pulls recently finished matches, caches the new ones,
// and feeds each through the scoring pipeline. A scoring failure for one
// match is recorded and does not stop the rest of the pass.
func (s *ResultsService) UpdateRecentResults(ctx context.Context, maxMatches int, competitionSlugs []string) (UpdateSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.UpdateRecentResults")
	defer span.End()

	if maxMatches <= 0 {
		maxMatches = s.maxAPICalls
	}

	comps := s.selectCompetitions(competitionSlugs)
	if len(comps) == 0 {
		return UpdateSummary{}, fmt.Errorf("%w: no known competitions selected", ErrInvalidInput)
	}

	finished, err := s.gateway.FinishedMatches(ctx, comps, maxMatches)
	if err != nil {
		return UpdateSummary{}, fmt.Errorf("fetch finished matches: %w", err)
	}

	summary := UpdateSummary{}
	for _, result := range finished {
		_, alreadyCached, err := s.cacheRepo.Get(ctx, result.MatchID)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("read cache for match %s: %v", result.MatchID, err))
			continue
		}
		if !alreadyCached {
			if err := s.cacheRepo.Put(ctx, result); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("store result for match %s: %v", result.MatchID, err))
				continue
			}
			summary.Updated++

			s.markMatchFinished(ctx, result)
		}

		if s.scorer == nil {
			continue
		}
		// Scoring runs for cached results too, so a batch that failed in
		// an earlier pass is re-attempted on the next one.
		processed, err := s.scorer.ProcessMatchResult(ctx, result.MatchID, result)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("score match %s: %v", result.MatchID, err))
			continue
		}
		summary.Processed += processed
	}

	s.logger.InfoContext(ctx, "recent results pass finished",
		"updated", summary.Updated, "processed", summary.Processed, "errors", len(summary.Errors))
	return summary, nil
}

// SyncUpcomingMatches refreshes the stored schedule for every configured
// competition inside the window.
func (s *ResultsService) SyncUpcomingMatches(ctx context.Context, from, to time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.SyncUpcomingMatches")
	defer span.End()

	upcoming, err := s.gateway.UpcomingMatches(ctx, s.competitions, from, to)
	if err != nil {
		return 0, fmt.Errorf("fetch upcoming matches: %w", err)
	}

	stored := 0
	for _, item := range upcoming {
		if err := s.matchRepo.Upsert(ctx, item); err != nil {
			s.logger.ErrorContext(ctx, "store scheduled match", "match_id", item.ID, "error", err)
			continue
		}
		stored++
	}
	return stored, nil
}

func (s *ResultsService) markMatchFinished(ctx context.Context, result matchresult.MatchResult) {
	if s.matchRepo == nil {
		return
	}
	stored, found, err := s.matchRepo.GetByID(ctx, result.MatchID)
	if err != nil || !found {
		return
	}
	stored.Status = match.StatusFinished
	if err := s.matchRepo.Upsert(ctx, stored); err != nil {
		s.logger.WarnContext(ctx, "mark match finished", "match_id", result.MatchID, "error", err)
	}
}

func (s *ResultsService) selectCompetitions(slugs []string) []competition.Competition {
	if len(slugs) == 0 {
		return s.competitions
	}
	indexed := competition.BySlug(s.competitions)
	out := make([]competition.Competition, 0, len(slugs))
	for _, slug := range dedupeIDs(slugs) {
		if comp, ok := indexed[slug]; ok {
			out = append(out, comp)
		}
	}
	return out
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
