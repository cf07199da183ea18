package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

func TestSubmit_CreatesNormalizedPrediction(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(2 * time.Hour)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	predRepo := newStubPredictionRepository()
	service := NewPredictionService(predRepo, matchRepo, logging.NewNop())

	got, err := service.Submit(context.Background(), SubmitPredictionInput{
		UserID:    "u1",
		MatchID:   "m1",
		HomeScore: intPtr(2),
		AwayScore: intPtr(1),
		Scorers:   []string{" Saka ", "saka", "Havertz", "Palmer", "Rice"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Status != "pending" {
		t.Errorf("status = %q, want pending", got.Status)
	}
	// Duplicate dropped case-insensitively, then capped at three.
	if len(got.Scorers) != 3 || got.Scorers[0] != "Saka" {
		t.Errorf("scorers = %v, want trimmed deduped cap of 3", got.Scorers)
	}
}

func TestSubmit_RejectsAfterKickoff(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(-time.Minute)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	service := NewPredictionService(newStubPredictionRepository(), matchRepo, logging.NewNop())

	_, err := service.Submit(context.Background(), SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(1), AwayScore: intPtr(0)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestSubmit_RejectsMismatchedScores(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(time.Hour)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	service := NewPredictionService(newStubPredictionRepository(), matchRepo, logging.NewNop())

	_, err := service.Submit(context.Background(), SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(1)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestSubmit_ScorersOnlyPredictionAllowed(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(time.Hour)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	service := NewPredictionService(newStubPredictionRepository(), matchRepo, logging.NewNop())

	got, err := service.Submit(context.Background(), SubmitPredictionInput{UserID: "u1", MatchID: "m1", Scorers: []string{"Haaland"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.HomeScore != nil || got.AwayScore != nil {
		t.Errorf("scores should stay nil: %+v", got)
	}
}

func TestSubmit_ResubmitKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(time.Hour)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	predRepo := newStubPredictionRepository()
	service := NewPredictionService(predRepo, matchRepo, logging.NewNop())
	ctx := context.Background()

	first, err := service.Submit(ctx, SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(1), AwayScore: intPtr(0)})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	second, err := service.Submit(ctx, SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(2), AwayScore: intPtr(0)})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("resubmit changed createdAt: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	if *second.HomeScore != 2 {
		t.Errorf("resubmit did not overwrite the forecast: %+v", second)
	}
}

func TestSubmit_ScoredPredictionIsReadOnly(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(time.Hour)
	matchRepo := newStubMatchRepository(matchFixture("m1", "premier-league", kickoff))
	predRepo := newStubPredictionRepository()
	service := NewPredictionService(predRepo, matchRepo, logging.NewNop())
	ctx := context.Background()

	if _, err := service.Submit(ctx, SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(1), AwayScore: intPtr(0)}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	stored, _, _ := predRepo.Get(ctx, "u1", "m1")
	stored.Status = "scored"
	if err := predRepo.Upsert(ctx, stored); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	_, err := service.Submit(ctx, SubmitPredictionInput{UserID: "u1", MatchID: "m1", HomeScore: intPtr(3), AwayScore: intPtr(0)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation for scored row", err)
	}
}

func TestListScored_FiltersByMatchesWhenAsked(t *testing.T) {
	t.Parallel()

	scored := func(userID, matchID string, created time.Time) prediction.Prediction {
		return prediction.Prediction{UserID: userID, MatchID: matchID, Status: prediction.StatusScored, CreatedAt: created}
	}
	base := time.Now().UTC()
	predRepo := newStubPredictionRepository(
		scored("u1", "m1", base),
		scored("u1", "m2", base.Add(time.Minute)),
		prediction.Prediction{UserID: "u1", MatchID: "m3", Status: prediction.StatusPending, CreatedAt: base},
		scored("u2", "m1", base),
	)
	service := NewPredictionService(predRepo, newStubMatchRepository(), logging.NewNop())
	ctx := context.Background()

	all, err := service.ListScored(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("ListScored: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d predictions, want the 2 scored ones", len(all))
	}

	narrowed, err := service.ListScored(ctx, "u1", []string{"m2"})
	if err != nil {
		t.Fatalf("ListScored narrowed: %v", err)
	}
	if len(narrowed) != 1 || narrowed[0].MatchID != "m2" {
		t.Errorf("narrowed = %+v, want only m2", narrowed)
	}
}

func TestListScored_RequiresUserID(t *testing.T) {
	t.Parallel()

	service := NewPredictionService(newStubPredictionRepository(), newStubMatchRepository(), logging.NewNop())
	if _, err := service.ListScored(context.Background(), "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	service := NewPredictionService(newStubPredictionRepository(), newStubMatchRepository(), logging.NewNop())
	if _, err := service.Get(context.Background(), "u1", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
