package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/platform/logging"
)

// SubmitPredictionInput carries one user forecast. Nil scores mean the user
// only predicted scorers.
type SubmitPredictionInput struct {
	UserID    string
	MatchID   string
	HomeScore *int
	AwayScore *int
	Scorers   []string
}

type PredictionService struct {
	predictionRepo prediction.Repository
	matchRepo      match.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit creates or overwrites the user's forecast for a match. The window
// closes at kickoff; after that the row belongs to the scoring pipeline.
func (s *PredictionService) Submit(ctx context.Context, in SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if in.UserID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if in.MatchID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if (in.HomeScore == nil) != (in.AwayScore == nil) {
		return prediction.Prediction{}, fmt.Errorf("%w: home and away scores must be set together", ErrInvalidInput)
	}
	if in.HomeScore != nil && (*in.HomeScore < 0 || *in.AwayScore < 0) {
		return prediction.Prediction{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}

	fixture, found, err := s.matchRepo.GetByID(ctx, in.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: load match %s: %v", ErrPersistence, in.MatchID, err)
	}
	if !found {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s", ErrNotFound, in.MatchID)
	}

	now := s.now().UTC()
	if fixture.Started(now) {
		return prediction.Prediction{}, fmt.Errorf("%w: match %s has already kicked off", ErrValidation, in.MatchID)
	}

	item := prediction.Prediction{
		UserID:    in.UserID,
		MatchID:   in.MatchID,
		HomeScore: in.HomeScore,
		AwayScore: in.AwayScore,
		Scorers:   prediction.NormalizeScorers(in.Scorers),
		Status:    prediction.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, found, err := s.predictionRepo.Get(ctx, in.UserID, in.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: load prediction %s: %v", ErrPersistence, prediction.Key(in.UserID, in.MatchID), err)
	}
	if found {
		if existing.IsScored() {
			return prediction.Prediction{}, fmt.Errorf("%w: prediction for match %s is already scored", ErrValidation, in.MatchID)
		}
		item.CreatedAt = existing.CreatedAt
	}

	if err := s.predictionRepo.Upsert(ctx, item); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: store prediction %s: %v", ErrPersistence, prediction.Key(in.UserID, in.MatchID), err)
	}
	return item, nil
}

// Get returns the user's forecast for one match.
func (s *PredictionService) Get(ctx context.Context, userID, matchID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get")
	defer span.End()

	if userID == "" || matchID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}

	item, found, err := s.predictionRepo.Get(ctx, userID, matchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: load prediction %s: %v", ErrPersistence, prediction.Key(userID, matchID), err)
	}
	if !found {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction %s", ErrNotFound, prediction.Key(userID, matchID))
	}
	return item, nil
}

// ListScored returns the user's scored history, optionally narrowed to a
// match-id set.
func (s *PredictionService) ListScored(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListScored")
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var (
		items []prediction.Prediction
		err   error
	)
	if len(matchIDs) == 0 {
		items, err = s.predictionRepo.ListScoredByUser(ctx, userID)
	} else {
		items, err = s.predictionRepo.ListScoredByUserAndMatches(ctx, userID, matchIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list scored predictions for user %s: %v", ErrPersistence, userID, err)
	}
	return items, nil
}
