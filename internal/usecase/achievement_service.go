package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/notification"
	"github.com/goalcast/goalcast/internal/platform/cache"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

// SummaryCacheTTL is how long an evaluated achievement summary stays
// servable before the next evaluation pass.
const SummaryCacheTTL = 30 * time.Minute

const recentUnlockLimit = 5

type AchievementService struct {
	achievementRepo achievement.Repository
	notifier        notification.Notifier
	summaryCache    *cache.Store
	definitions     []achievement.Definition
	logger          *logging.Logger
	now             func() time.Time
}

func NewAchievementService(
	achievementRepo achievement.Repository,
	notifier notification.Notifier,
	summaryCache *cache.Store,
	logger *logging.Logger,
) *AchievementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AchievementService{
		achievementRepo: achievementRepo,
		notifier:        notifier,
		summaryCache:    summaryCache,
		definitions:     achievement.Definitions(),
		logger:          logger,
		now:             time.Now,
	}
}

// Evaluate runs every definition against the user's statistics and returns
// the summary. It never fails the caller: any unexpected problem degrades to
// an all-locked summary, since achievement display must not block anything
// else.
func (s *AchievementService) Evaluate(ctx context.Context, userID string, in achievement.Input, forceRefresh bool) achievement.Summary {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.Evaluate")
	defer span.End()

	key := "achievements:summary:" + userID
	if s.summaryCache != nil && !forceRefresh {
		if cached, ok := s.summaryCache.Get(ctx, key); ok {
			if summary, isSummary := cached.(achievement.Summary); isSummary {
				return summary
			}
		}
	}

	summary, err := s.evaluateOnce(ctx, userID, in)
	if err != nil {
		s.logger.ErrorContext(ctx, "achievement evaluation degraded to locked defaults", "user_id", userID, "error", err)
		return s.lockedDefault(in)
	}

	if s.summaryCache != nil {
		s.summaryCache.Set(ctx, key, summary)
	}
	return summary
}

func (s *AchievementService) evaluateOnce(ctx context.Context, userID string, in achievement.Input) (achievement.Summary, error) {
	if userID == "" {
		return achievement.Summary{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	stored, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return achievement.Summary{}, fmt.Errorf("list achievement records for user %s: %w", userID, err)
	}
	recordByID := make(map[string]achievement.Record, len(stored))
	for _, rec := range stored {
		recordByID[rec.ID] = rec
	}

	now := s.now().UTC()
	summary := achievement.Summary{Total: len(s.definitions)}
	changed := make([]achievement.Record, 0, 4)
	newlyUnlocked := make([]achievement.Status, 0, 2)

	for _, def := range s.definitions {
		rec, known := recordByID[def.ID]
		rec.ID = def.ID

		switch {
		case rec.Unlocked:
			// Sticky: recomputation never re-locks.
		case def.Unlocked(in):
			unlockedAt := now
			rec.Unlocked = true
			rec.UnlockedDate = &unlockedAt
			rec.Progress = 100
			changed = append(changed, rec)
			newlyUnlocked = append(newlyUnlocked, achievement.Status{Definition: def, Record: rec})
		default:
			progress := def.Progress(in)
			if !known || progress != rec.Progress {
				rec.Progress = progress
				changed = append(changed, rec)
			}
		}

		status := achievement.Status{Definition: def, Record: rec}
		if !rec.Unlocked {
			status.Remaining = def.Remaining(in)
		}
		summary.Achievements = append(summary.Achievements, status)

		if rec.Unlocked {
			summary.Unlocked++
			summary.Points += def.Points
			if achievement.IsRare(def.Rarity) {
				summary.Rare++
			}
		}
	}

	if len(changed) > 0 {
		if err := s.achievementRepo.UpsertBatch(ctx, userID, changed); err != nil {
			return achievement.Summary{}, fmt.Errorf("store achievement records for user %s: %w", userID, err)
		}
	}

	s.notifyUnlocks(ctx, userID, newlyUnlocked)
	summary.Recent = recentUnlocks(summary.Achievements)
	return summary, nil
}

// notifyUnlocks is best-effort: a notification failure never rolls back an
// unlock.
func (s *AchievementService) notifyUnlocks(ctx context.Context, userID string, unlocked []achievement.Status) {
	if s.notifier == nil {
		return
	}
	for _, status := range unlocked {
		if err := s.notifier.AchievementUnlocked(ctx, userID, status.Definition); err != nil {
			s.logger.WarnContext(ctx, "achievement unlock notification failed",
				"user_id", userID, "achievement_id", status.Definition.ID, "error", err)
		}
	}
}

func recentUnlocks(statuses []achievement.Status) []achievement.Status {
	unlocked := make([]achievement.Status, 0, len(statuses))
	for _, status := range statuses {
		if status.Record.Unlocked && status.Record.UnlockedDate != nil {
			unlocked = append(unlocked, status)
		}
	}
	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].Record.UnlockedDate.After(*unlocked[j].Record.UnlockedDate)
	})
	if len(unlocked) > recentUnlockLimit {
		unlocked = unlocked[:recentUnlockLimit]
	}
	return unlocked
}

// lockedDefault renders every definition locked with progress from the
// given statistics, persisting nothing.
func (s *AchievementService) lockedDefault(in achievement.Input) achievement.Summary {
	summary := achievement.Summary{Total: len(s.definitions)}
	for _, def := range s.definitions {
		summary.Achievements = append(summary.Achievements, achievement.Status{
			Definition: def,
			Record:     achievement.Record{ID: def.ID, Progress: def.Progress(in)},
			Remaining:  def.Remaining(in),
		})
	}
	return summary
}
