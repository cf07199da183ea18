package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/userstats"
	"github.com/goalcast/goalcast/internal/platform/cache"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

func statusByID(summary achievement.Summary, id string) (achievement.Status, bool) {
	for _, status := range summary.Achievements {
		if status.Definition.ID == id {
			return status, true
		}
	}
	return achievement.Status{}, false
}

func TestEvaluate_UnlocksAndNotifies(t *testing.T) {
	t.Parallel()

	repo := newStubAchievementRepository()
	notifier := &stubNotifier{}
	service := NewAchievementService(repo, notifier, nil, logging.NewNop())

	in := achievement.Input{Stats: userstats.Statistics{
		UserID:           "u1",
		TotalPredictions: 12,
		TotalPoints:      18,
		ExactScores:      1,
		BestStreak:       2,
	}}
	summary := service.Evaluate(context.Background(), "u1", in, false)

	if summary.Total != 22 {
		t.Fatalf("total = %d, want 22 definitions", summary.Total)
	}
	// first_prediction, getting_started, off_the_mark, bullseye.
	if summary.Unlocked != 4 {
		t.Fatalf("unlocked = %d, want 4: %+v", summary.Unlocked, summary.Recent)
	}
	if summary.Points != 5+10+5+10 {
		t.Errorf("points = %d, want 30", summary.Points)
	}
	if summary.Rare != 0 {
		t.Errorf("rare = %d, want 0", summary.Rare)
	}
	if len(summary.Recent) != 4 {
		t.Errorf("recent = %d, want 4", len(summary.Recent))
	}
	if got := notifier.eventsOfKind("achievement"); len(got) != 4 {
		t.Errorf("unlock notifications = %d, want 4", len(got))
	}

	locked, ok := statusByID(summary, "regular")
	if !ok {
		t.Fatal("regular definition missing")
	}
	if locked.Record.Unlocked {
		t.Errorf("regular should stay locked: %+v", locked)
	}
	if locked.Record.Progress != 24.0 {
		t.Errorf("regular progress = %v, want 24.0", locked.Record.Progress)
	}
	if locked.Remaining != "38 more predictions" {
		t.Errorf("regular remaining = %q", locked.Remaining)
	}
}

func TestEvaluate_UnlocksAreSticky(t *testing.T) {
	t.Parallel()

	repo := newStubAchievementRepository()
	service := NewAchievementService(repo, nil, nil, logging.NewNop())
	ctx := context.Background()

	strong := achievement.Input{Stats: userstats.Statistics{TotalPredictions: 1, TotalPoints: 3}}
	first := service.Evaluate(ctx, "u1", strong, false)
	if got, _ := statusByID(first, "off_the_mark"); !got.Record.Unlocked {
		t.Fatalf("off_the_mark should unlock: %+v", got)
	}

	// Statistics that no longer satisfy the predicate.
	weak := achievement.Input{Stats: userstats.Statistics{TotalPredictions: 0, TotalPoints: 0}}
	second := service.Evaluate(ctx, "u1", weak, true)
	got, _ := statusByID(second, "off_the_mark")
	if !got.Record.Unlocked {
		t.Fatalf("unlock was reset by recomputation: %+v", got)
	}
	if got.Record.UnlockedDate == nil {
		t.Error("unlock date lost")
	}
}

func TestEvaluate_WeeklyRules(t *testing.T) {
	t.Parallel()

	service := NewAchievementService(newStubAchievementRepository(), nil, nil, logging.NewNop())
	week := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)

	in := achievement.Input{
		Stats: userstats.Statistics{TotalPredictions: 9, TotalPoints: 25},
		Weekly: []userstats.WeeklyBucket{
			{WeekStart: week, Points: 21, Predictions: 5},
			{WeekStart: week.AddDate(0, 0, 7), Points: 4, Predictions: 4},
		},
	}
	summary := service.Evaluate(context.Background(), "u1", in, false)

	if got, _ := statusByID(summary, "purple_patch"); !got.Record.Unlocked {
		t.Errorf("purple_patch should unlock at 21 points in a week: %+v", got)
	}
	busy, _ := statusByID(summary, "busy_week")
	if busy.Record.Unlocked {
		t.Errorf("busy_week should stay locked at 5 max weekly predictions: %+v", busy)
	}
	if busy.Remaining == "" {
		t.Error("busy_week should report what remains")
	}
}

func TestEvaluate_CachesForThirtyMinutesAndForceRefreshBypasses(t *testing.T) {
	t.Parallel()

	repo := newStubAchievementRepository()
	summaryCache := cache.NewStore(SummaryCacheTTL)
	service := NewAchievementService(repo, nil, summaryCache, logging.NewNop())
	ctx := context.Background()

	none := achievement.Input{}
	first := service.Evaluate(ctx, "u1", none, false)
	if first.Unlocked != 0 {
		t.Fatalf("unexpected unlocks: %+v", first)
	}

	// Better statistics, but the cached summary is still served.
	better := achievement.Input{Stats: userstats.Statistics{TotalPredictions: 1, TotalPoints: 1}}
	cached := service.Evaluate(ctx, "u1", better, false)
	if cached.Unlocked != 0 {
		t.Errorf("cache was bypassed without forceRefresh: %+v", cached)
	}

	refreshed := service.Evaluate(ctx, "u1", better, true)
	if refreshed.Unlocked != 2 {
		t.Errorf("forceRefresh unlocked = %d, want 2", refreshed.Unlocked)
	}
}

func TestEvaluate_FailureDegradesToLockedDefaults(t *testing.T) {
	t.Parallel()

	repo := newStubAchievementRepository()
	repo.listErr = errors.New("store offline")
	service := NewAchievementService(repo, nil, nil, logging.NewNop())

	in := achievement.Input{Stats: userstats.Statistics{TotalPredictions: 500, TotalPoints: 999}}
	summary := service.Evaluate(context.Background(), "u1", in, false)

	if summary.Total != 22 || len(summary.Achievements) != 22 {
		t.Fatalf("degraded summary incomplete: %+v", summary)
	}
	if summary.Unlocked != 0 || summary.Points != 0 || summary.Rare != 0 {
		t.Errorf("degraded summary must be all-locked: %+v", summary)
	}
	for _, status := range summary.Achievements {
		if status.Record.Unlocked {
			t.Errorf("definition %s unlocked in degraded summary", status.Definition.ID)
		}
	}
}
