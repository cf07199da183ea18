package memory

import (
	"context"
	"testing"
	"time"

	"github.com/goalcast/goalcast/internal/domain/achievement"
)

func TestAchievementRepository_UpsertKeepsUnlockSticky(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAchievementRepository()
	unlockedAt := time.Date(2026, 8, 21, 18, 30, 0, 0, time.UTC)

	err := repo.UpsertBatch(ctx, "u1", []achievement.Record{{
		ID:           "first-blood",
		Unlocked:     true,
		UnlockedDate: &unlockedAt,
		Progress:     1,
	}})
	if err != nil {
		t.Fatalf("upsert unlock: %v", err)
	}

	// A later batch computed from a partial window reports the badge locked.
	err = repo.UpsertBatch(ctx, "u1", []achievement.Record{{
		ID:       "first-blood",
		Unlocked: false,
		Progress: 0.4,
	}})
	if err != nil {
		t.Fatalf("upsert relock attempt: %v", err)
	}

	records, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if !got.Unlocked {
		t.Error("unlock must not revert on a later locked upsert")
	}
	if got.UnlockedDate == nil || !got.UnlockedDate.Equal(unlockedAt) {
		t.Errorf("unlock date = %v, want original %v", got.UnlockedDate, unlockedAt)
	}
	if got.Progress != 0.4 {
		t.Errorf("progress = %v, want latest value 0.4", got.Progress)
	}
}

func TestAchievementRepository_LaterUnlockDateFills(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewAchievementRepository()

	err := repo.UpsertBatch(ctx, "u1", []achievement.Record{{ID: "streak-5", Progress: 0.8}})
	if err != nil {
		t.Fatalf("upsert locked: %v", err)
	}

	unlockedAt := time.Date(2026, 8, 22, 20, 0, 0, 0, time.UTC)
	err = repo.UpsertBatch(ctx, "u1", []achievement.Record{{
		ID:           "streak-5",
		Unlocked:     true,
		UnlockedDate: &unlockedAt,
		Progress:     1,
	}})
	if err != nil {
		t.Fatalf("upsert unlock: %v", err)
	}

	records, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || !records[0].Unlocked {
		t.Fatalf("expected unlocked record, got %+v", records)
	}
	if records[0].UnlockedDate == nil || !records[0].UnlockedDate.Equal(unlockedAt) {
		t.Errorf("unlock date = %v, want %v", records[0].UnlockedDate, unlockedAt)
	}
}
