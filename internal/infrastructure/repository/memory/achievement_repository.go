package memory

import (
	"context"
	"sync"

	"github.com/goalcast/goalcast/internal/domain/achievement"
)

type AchievementRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]achievement.Record
}

func NewAchievementRepository() *AchievementRepository {
	return &AchievementRepository{byUser: make(map[string]map[string]achievement.Record)}
}

func (r *AchievementRepository) ListByUser(_ context.Context, userID string) ([]achievement.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.byUser[userID]
	out := make([]achievement.Record, 0, len(records))
	for _, record := range records {
		out = append(out, cloneRecord(record))
	}

	return out, nil
}

func (r *AchievementRepository) UpsertBatch(_ context.Context, userID string, records []achievement.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byUser[userID]
	if !ok {
		stored = make(map[string]achievement.Record, len(records))
		r.byUser[userID] = stored
	}
	for _, record := range records {
		incoming := cloneRecord(record)
		if existing, ok := stored[record.ID]; ok {
			// Same merge the SQL upsert applies: an unlock never reverts
			// and the first unlock date wins.
			incoming.Unlocked = existing.Unlocked || incoming.Unlocked
			if existing.UnlockedDate != nil {
				date := *existing.UnlockedDate
				incoming.UnlockedDate = &date
			}
		}
		stored[record.ID] = incoming
	}

	return nil
}

func cloneRecord(record achievement.Record) achievement.Record {
	out := record
	if record.UnlockedDate != nil {
		date := *record.UnlockedDate
		out.UnlockedDate = &date
	}

	return out
}
