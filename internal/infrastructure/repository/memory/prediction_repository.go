package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalcast/goalcast/internal/domain/prediction"
)

// PredictionRepository stores predictions keyed by the composite
// userID_matchID document key.
type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository(seed []prediction.Prediction) *PredictionRepository {
	items := make(map[string]prediction.Prediction, len(seed))
	for _, item := range seed {
		items[prediction.Key(item.UserID, item.MatchID)] = clonePrediction(item)
	}

	return &PredictionRepository{items: items}
}

func (r *PredictionRepository) Get(_ context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[prediction.Key(userID, matchID)]
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	return clonePrediction(item), true, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[prediction.Key(item.UserID, item.MatchID)] = clonePrediction(item)

	return nil
}

func (r *PredictionRepository) ListUnscoredByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.MatchID != matchID || item.IsScored() {
			continue
		}
		out = append(out, clonePrediction(item))
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListScoredByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.UserID != userID || !item.IsScored() {
			continue
		}
		out = append(out, clonePrediction(item))
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListScoredByUserAndMatches(_ context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	allowed := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		allowed[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.UserID != userID || !item.IsScored() {
			continue
		}
		if _, ok := allowed[item.MatchID]; !ok {
			continue
		}
		out = append(out, clonePrediction(item))
	}
	sortPredictions(out)

	return out, nil
}

// UpdateBatch replaces every given row under one lock so a match's
// predictions flip to scored together.
func (r *PredictionRepository) UpdateBatch(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[prediction.Key(item.UserID, item.MatchID)] = clonePrediction(item)
	}

	return nil
}

func sortPredictions(items []prediction.Prediction) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return prediction.Key(items[i].UserID, items[i].MatchID) < prediction.Key(items[j].UserID, items[j].MatchID)
	})
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	out := item
	if item.Scorers != nil {
		out.Scorers = append([]string(nil), item.Scorers...)
	}
	if item.Evaluation != nil {
		eval := *item.Evaluation
		if item.Evaluation.ScorerHits != nil {
			eval.ScorerHits = append([]string(nil), item.Evaluation.ScorerHits...)
		}
		out.Evaluation = &eval
	}

	return out
}
