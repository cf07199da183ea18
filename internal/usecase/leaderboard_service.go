package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goalcast/goalcast/internal/domain/league"
	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/domain/userstats"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultRecalcWorkerCount = 8

type LeaderboardService struct {
	leaderboardRepo leaderboard.Repository
	leagueRepo      league.Repository
	predictionRepo  prediction.Repository
	matchRepo       match.Repository
	logger          *logging.Logger
	workerCount     int
	now             func() time.Time
}

func NewLeaderboardService(
	leaderboardRepo leaderboard.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		leagueRepo:      leagueRepo,
		predictionRepo:  predictionRepo,
		matchRepo:       matchRepo,
		logger:          logger,
		workerCount:     defaultRecalcWorkerCount,
		now:             time.Now,
	}
}

// Recalculate rebuilds a league's board from scratch: every member's
// league-scoped history is replayed, then the whole row set is ranked and
// swapped in. The board stays stale between explicit recalculations.
func (s *LeaderboardService) Recalculate(ctx context.Context, leagueID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Recalculate")
	defer span.End()

	if leagueID == "" {
		leagueID = leaderboard.GeneralLeague
	}

	allowed, err := s.leagueMatchFilter(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	members, err := s.leagueRepo.ListMemberIDs(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members for league %s: %w", leagueID, err)
	}
	if len(members) == 0 {
		if err := s.leaderboardRepo.ReplaceByLeague(ctx, leagueID, leaderboard.PeriodOverall, nil); err != nil {
			return nil, fmt.Errorf("%w: clear board for league %s: %v", ErrPersistence, leagueID, err)
		}
		return nil, nil
	}

	now := s.now().UTC()
	workers := pool.NewWithResults[leaderboard.Entry]().WithContext(ctx).WithMaxGoroutines(s.workerCount)
	for _, userID := range members {
		userID := userID
		workers.Go(func(workerCtx context.Context) (leaderboard.Entry, error) {
			return s.recomputeMemberEntry(workerCtx, leagueID, userID, allowed, now)
		})
	}
	entries, err := workers.Wait()
	if err != nil {
		return nil, fmt.Errorf("recompute league %s: %w", leagueID, err)
	}

	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.leaderboardRepo.ReplaceByLeague(ctx, leagueID, leaderboard.PeriodOverall, entries); err != nil {
		return nil, fmt.Errorf("%w: store board for league %s: %v", ErrPersistence, leagueID, err)
	}

	s.logger.InfoContext(ctx, "leaderboard recalculated", "league_id", leagueID, "entries", len(entries))
	return entries, nil
}

// leagueMatchFilter resolves the match-id set a league's scoring is scoped
// to. nil means no filter: the general board spans everything.
func (s *LeaderboardService) leagueMatchFilter(ctx context.Context, leagueID string) (map[string]struct{}, error) {
	if leagueID == leaderboard.GeneralLeague {
		return nil, nil
	}

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("load league %s: %w", leagueID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if len(lg.Competitions) == 0 {
		return nil, nil
	}

	allowed := make(map[string]struct{})
	for _, comp := range lg.Competitions {
		matches, err := s.matchRepo.ListByCompetition(ctx, comp)
		if err != nil {
			return nil, fmt.Errorf("list matches for competition %s: %w", comp, err)
		}
		for _, item := range matches {
			allowed[item.ID] = struct{}{}
		}
	}
	return allowed, nil
}

// recomputeMemberEntry replays one member's scored predictions oldest first,
// recomputing totals and streaks from zero. Unlike the global aggregate this
// path never trusts stored running values.
func (s *LeaderboardService) recomputeMemberEntry(ctx context.Context, leagueID, userID string, allowed map[string]struct{}, now time.Time) (leaderboard.Entry, error) {
	scored, err := s.predictionRepo.ListScoredByUser(ctx, userID)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("list scored predictions for user %s: %w", userID, err)
	}

	inScope := scored[:0]
	for _, pred := range scored {
		if allowed != nil {
			if _, ok := allowed[pred.MatchID]; !ok {
				continue
			}
		}
		inScope = append(inScope, pred)
	}
	sort.Slice(inScope, func(i, j int) bool {
		return inScope[i].CreatedAt.Before(inScope[j].CreatedAt)
	})

	entry := leaderboard.Entry{
		LeagueID:     leagueID,
		Period:       leaderboard.PeriodOverall,
		UserID:       userID,
		CalculatedAt: now,
	}
	for _, pred := range inScope {
		entry.TotalPredictions++
		entry.TotalPoints += pred.Points
		entry.LastMatchPoints = pred.Points
		if pred.Evaluation != nil {
			if pred.Evaluation.CorrectOutcome {
				entry.CorrectOutcomes++
			}
			if pred.Evaluation.ExactScore {
				entry.ExactScores++
			}
			entry.CorrectScorers += len(pred.Evaluation.ScorerHits)
		}
		if pred.Points > 0 {
			entry.CurrentStreak++
		} else {
			entry.CurrentStreak = 0
		}
		if entry.CurrentStreak > entry.BestStreak {
			entry.BestStreak = entry.CurrentStreak
		}
	}
	entry.Accuracy = userstats.RoundAccuracy(entry.CorrectOutcomes, entry.TotalPredictions)
	return entry, nil
}

// Ranked returns the stored board in ranking order with the read-time
// derived fields filled in.
func (s *LeaderboardService) Ranked(ctx context.Context, leagueID, period string) ([]leaderboard.RankedEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Ranked")
	defer span.End()

	entries, err := s.loadOrdered(ctx, leagueID, period)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	top := entries[0].TotalPoints
	ranked := make([]leaderboard.RankedEntry, 0, len(entries))
	for _, entry := range entries {
		ranked = append(ranked, decorate(entry, top))
	}
	return ranked, nil
}

// UserPosition returns one member's ranked row plus their percentile on the
// board.
func (s *LeaderboardService) UserPosition(ctx context.Context, leagueID, period, userID string) (leaderboard.Position, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.UserPosition")
	defer span.End()

	if userID == "" {
		return leaderboard.Position{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	entries, err := s.loadOrdered(ctx, leagueID, period)
	if err != nil {
		return leaderboard.Position{}, err
	}
	if len(entries) == 0 {
		return leaderboard.Position{}, fmt.Errorf("%w: leaderboard for league %s", ErrNotFound, leagueID)
	}

	top := entries[0].TotalPoints
	total := len(entries)
	for _, entry := range entries {
		if entry.UserID != userID {
			continue
		}
		return leaderboard.Position{
			RankedEntry: decorate(entry, top),
			Percentile:  percentileOf(entry.Rank, total),
			TotalUsers:  total,
		}, nil
	}
	return leaderboard.Position{}, fmt.Errorf("%w: user %s on league %s leaderboard", ErrNotFound, userID, leagueID)
}

func (s *LeaderboardService) loadOrdered(ctx context.Context, leagueID, period string) ([]leaderboard.Entry, error) {
	if leagueID == "" {
		leagueID = leaderboard.GeneralLeague
	}
	if period == "" {
		period = leaderboard.PeriodOverall
	}

	entries, err := s.leaderboardRepo.ListByLeague(ctx, leagueID, period)
	if err != nil {
		return nil, fmt.Errorf("%w: load board for league %s: %v", ErrPersistence, leagueID, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})
	return entries, nil
}

func decorate(entry leaderboard.Entry, topPoints int) leaderboard.RankedEntry {
	return leaderboard.RankedEntry{
		Entry:           entry,
		PointsFromFirst: topPoints - entry.TotalPoints,
		Trend:           leaderboard.Trend(entry.LastMatchPoints),
		RecentForm:      leaderboard.RecentForm(entry.CurrentStreak),
	}
}

// sortEntries orders by points, then accuracy, then prediction count, all
// descending. Position alone determines rank; full ties still rank apart.
func sortEntries(entries []leaderboard.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		return a.TotalPredictions > b.TotalPredictions
	})
}

// percentileOf reports the share of the board the entry sits above.
func percentileOf(rank, total int) float64 {
	if total <= 0 || rank <= 0 {
		return 0
	}
	return math.Round(float64(total-rank)/float64(total)*100*100) / 100
}
