package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/domain/userstats"
	"github.com/goalcast/goalcast/internal/platform/cache"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

const statsWeeklyWindow = 12 // weeks of chart history

// StatisticsReport is the read-side view: the running aggregate plus
// chart-ready weekly buckets.
type StatisticsReport struct {
	Stats  userstats.Statistics
	Weekly []userstats.WeeklyBucket
}

type StatsService struct {
	statsRepo      userstats.Repository
	predictionRepo prediction.Repository
	reportCache    *cache.Store
	logger         *logging.Logger
	now            func() time.Time

	// userLocks serializes read-modify-write per user so two matches scored
	// in the same run cannot drop each other's update.
	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewStatsService(
	statsRepo userstats.Repository,
	predictionRepo prediction.Repository,
	reportCache *cache.Store,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		statsRepo:      statsRepo,
		predictionRepo: predictionRepo,
		reportCache:    reportCache,
		logger:         logger,
		now:            time.Now,
		userLocks:      make(map[string]*sync.Mutex),
	}
}

func (s *StatsService) lockFor(userID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// ApplyEvaluation folds one evaluation into the user's running aggregate.
// A zero-point evaluation resets the current streak; bestStreak never
// decreases.
func (s *StatsService) ApplyEvaluation(ctx context.Context, userID string, eval prediction.Evaluation) (userstats.Statistics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ApplyEvaluation")
	defer span.End()

	if userID == "" {
		return userstats.Statistics{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	stats, _, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return userstats.Statistics{}, fmt.Errorf("%w: load statistics for user %s: %v", ErrPersistence, userID, err)
	}
	stats.UserID = userID

	stats.TotalPredictions++
	stats.TotalPoints += eval.Points
	if eval.CorrectOutcome {
		stats.CorrectOutcomes++
	}
	if eval.ExactScore {
		stats.ExactScores++
	}
	if eval.Points > 0 {
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 0
	}
	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}
	stats.Accuracy = userstats.RoundAccuracy(stats.CorrectOutcomes, stats.TotalPredictions)
	stats.UpdatedAt = s.now().UTC()

	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return userstats.Statistics{}, fmt.Errorf("%w: store statistics for user %s: %v", ErrPersistence, userID, err)
	}

	if s.reportCache != nil {
		s.reportCache.Delete(ctx, statsReportCacheKey(userID))
	}

	return stats, nil
}

// GetUserStatistics serves the cached report; forceRefresh drops the cached
// copy first.
func (s *StatsService) GetUserStatistics(ctx context.Context, userID string, forceRefresh bool) (StatisticsReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetUserStatistics")
	defer span.End()

	if userID == "" {
		return StatisticsReport{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	key := statsReportCacheKey(userID)
	if s.reportCache == nil {
		return s.buildReport(ctx, userID)
	}
	if forceRefresh {
		s.reportCache.Delete(ctx, key)
	}

	cached, err := s.reportCache.GetOrLoad(ctx, key, func(loadCtx context.Context) (any, error) {
		return s.buildReport(loadCtx, userID)
	})
	if err != nil {
		return StatisticsReport{}, err
	}
	report, ok := cached.(StatisticsReport)
	if !ok {
		return s.buildReport(ctx, userID)
	}
	return report, nil
}

func (s *StatsService) buildReport(ctx context.Context, userID string) (StatisticsReport, error) {
	stats, found, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return StatisticsReport{}, fmt.Errorf("%w: load statistics for user %s: %v", ErrPersistence, userID, err)
	}
	if !found {
		stats = userstats.Statistics{UserID: userID}
	}

	weekly, err := s.weeklyBreakdown(ctx, userID)
	if err != nil {
		// The aggregate still renders without chart data.
		s.logger.WarnContext(ctx, "build weekly breakdown", "user_id", userID, "error", err)
		weekly = nil
	}

	return StatisticsReport{Stats: stats, Weekly: weekly}, nil
}

// weeklyBreakdown groups the user's scored predictions into Monday-anchored
// UTC weeks, newest last, capped to the chart window.
func (s *StatsService) weeklyBreakdown(ctx context.Context, userID string) ([]userstats.WeeklyBucket, error) {
	scored, err := s.predictionRepo.ListScoredByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scored predictions for user %s: %w", userID, err)
	}
	if len(scored) == 0 {
		return nil, nil
	}

	byWeek := make(map[time.Time]*userstats.WeeklyBucket)
	for _, pred := range scored {
		week := weekStart(pred.UpdatedAt)
		bucket, ok := byWeek[week]
		if !ok {
			bucket = &userstats.WeeklyBucket{WeekStart: week}
			byWeek[week] = bucket
		}
		bucket.Points += pred.Points
		bucket.Predictions++
	}

	weeks := make([]userstats.WeeklyBucket, 0, len(byWeek))
	for _, bucket := range byWeek {
		weeks = append(weeks, *bucket)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})
	if len(weeks) > statsWeeklyWindow {
		weeks = weeks[len(weeks)-statsWeeklyWindow:]
	}
	return weeks, nil
}

func weekStart(at time.Time) time.Time {
	at = at.UTC()
	day := at.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7 // Monday anchor
	return day.AddDate(0, 0, -offset)
}

func statsReportCacheKey(userID string) string {
	return "stats:report:" + userID
}
