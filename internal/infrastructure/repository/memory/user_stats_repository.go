package memory

import (
	"context"
	"sync"

	"github.com/goalcast/goalcast/internal/domain/userstats"
)

type UserStatsRepository struct {
	mu    sync.RWMutex
	items map[string]userstats.Statistics
}

func NewUserStatsRepository(seed []userstats.Statistics) *UserStatsRepository {
	items := make(map[string]userstats.Statistics, len(seed))
	for _, item := range seed {
		items[item.UserID] = item
	}

	return &UserStatsRepository{items: items}
}

func (r *UserStatsRepository) Get(_ context.Context, userID string) (userstats.Statistics, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return userstats.Statistics{}, false, nil
	}

	return item, true, nil
}

func (r *UserStatsRepository) Upsert(_ context.Context, stats userstats.Statistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[stats.UserID] = stats

	return nil
}
