package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/domain/notification"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/domain/userstats"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	pointsExactScore     = 3
	pointsCorrectOutcome = 1
	pointsPerScorerHit   = 1

	defaultStatsWorkerCount = 8
)

// StatsApplier receives one evaluation per scored prediction. Failures for
// one user must not block updates for the rest of the batch.
type StatsApplier interface {
	ApplyEvaluation(ctx context.Context, userID string, eval prediction.Evaluation) (userstats.Statistics, error)
}

type ScoringService struct {
	predictionRepo prediction.Repository
	stats          StatsApplier
	notifier       notification.Notifier
	logger         *logging.Logger
	workerCount    int
	now            func() time.Time
}

func NewScoringService(
	predictionRepo prediction.Repository,
	stats StatsApplier,
	notifier notification.Notifier,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		predictionRepo: predictionRepo,
		stats:          stats,
		notifier:       notifier,
		logger:         logger,
		workerCount:    defaultStatsWorkerCount,
		now:            time.Now,
	}
}

// Evaluate applies the point rules to one prediction against the final
// result. An exact score earns 3 and skips the outcome point; otherwise a
// matching outcome earns 1. Every predicted scorer found in the actual
// scorer set earns 1 regardless of the score lines. Predictions without
// numeric scores can only earn scorer points.
func Evaluate(pred prediction.Prediction, result matchresult.MatchResult) prediction.Evaluation {
	eval := prediction.Evaluation{}

	if pred.HomeScore != nil && pred.AwayScore != nil {
		if *pred.HomeScore == result.HomeScore && *pred.AwayScore == result.AwayScore {
			eval.ExactScore = true
			eval.Points += pointsExactScore
		} else if matchresult.Outcome(*pred.HomeScore, *pred.AwayScore) == matchresult.Outcome(result.HomeScore, result.AwayScore) {
			eval.CorrectOutcome = true
			eval.Points += pointsCorrectOutcome
		}
	}

	for _, scorer := range pred.Scorers {
		if result.HasScorer(scorer) {
			eval.ScorerHits = append(eval.ScorerHits, scorer)
			eval.Points += pointsPerScorerHit
		}
	}

	return eval
}

// ProcessMatchResult scores every pending prediction for the match as one
// atomic batch, then fans statistics updates out per user. Re-running on an
// already-scored match finds nothing eligible and processes zero.
func (s *ScoringService) ProcessMatchResult(ctx context.Context, matchID string, result matchresult.MatchResult) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ProcessMatchResult")
	defer span.End()

	if matchID == "" {
		return 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if !result.IsFinished() {
		return 0, fmt.Errorf("%w: match %s is not finished", ErrInvalidInput, matchID)
	}

	pending, err := s.predictionRepo.ListUnscoredByMatch(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("list unscored predictions for match %s: %w", matchID, err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	scored := make([]prediction.Prediction, 0, len(pending))
	for _, pred := range pending {
		eval := Evaluate(pred, result)
		pred.Status = prediction.StatusScored
		pred.Points = eval.Points
		evalCopy := eval
		pred.Evaluation = &evalCopy
		pred.UpdatedAt = now
		scored = append(scored, pred)
	}

	// All rows commit together or not at all; a match is never left
	// partially scored.
	if err := s.predictionRepo.UpdateBatch(ctx, scored); err != nil {
		return 0, fmt.Errorf("%w: commit scored batch for match %s: %v", ErrPersistence, matchID, err)
	}

	s.fanOutStatsUpdates(ctx, matchID, scored)

	return len(scored), nil
}

// fanOutStatsUpdates pushes one statistics update per scored prediction.
// Each user's failure is logged and swallowed so the rest of the batch still
// lands.
func (s *ScoringService) fanOutStatsUpdates(ctx context.Context, matchID string, scored []prediction.Prediction) {
	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		s.logger.ErrorContext(ctx, "create stats worker pool, falling back to sequential updates", "error", err)
		for _, pred := range scored {
			s.applyOneStatsUpdate(ctx, matchID, pred)
		}
		return
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, pred := range scored {
		pred := pred
		workers.Add(1)
		if submitErr := pool.Submit(func() {
			defer workers.Done()
			s.applyOneStatsUpdate(ctx, matchID, pred)
		}); submitErr != nil {
			workers.Done()
			s.applyOneStatsUpdate(ctx, matchID, pred)
		}
	}
	workers.Wait()
}

func (s *ScoringService) applyOneStatsUpdate(ctx context.Context, matchID string, pred prediction.Prediction) {
	eval := prediction.Evaluation{}
	if pred.Evaluation != nil {
		eval = *pred.Evaluation
	}

	if _, err := s.stats.ApplyEvaluation(ctx, pred.UserID, eval); err != nil {
		s.logger.ErrorContext(ctx, "apply statistics update",
			"user_id", pred.UserID, "match_id", matchID, "error", err)
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.MatchScored(ctx, pred.UserID, matchID, pred.Points); err != nil {
		s.logger.WarnContext(ctx, "match scored notification failed",
			"user_id", pred.UserID, "match_id", matchID, "error", err)
	}
}
