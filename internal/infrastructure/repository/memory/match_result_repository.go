package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goalcast/goalcast/internal/domain/matchresult"
)

// MatchResultRepository is the in-memory result cache. Entries past the TTL
// read as misses but stay resident for GetStale.
type MatchResultRepository struct {
	mu    sync.RWMutex
	items map[string]matchresult.MatchResult

	now func() time.Time
}

func NewMatchResultRepository(seed []matchresult.MatchResult) *MatchResultRepository {
	items := make(map[string]matchresult.MatchResult, len(seed))
	for _, item := range seed {
		items[item.MatchID] = cloneResult(item)
	}

	return &MatchResultRepository{
		items: items,
		now:   time.Now,
	}
}

func (r *MatchResultRepository) Get(_ context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok || !item.Fresh(r.now()) {
		return matchresult.MatchResult{}, false, nil
	}

	return cloneResult(item), true, nil
}

// GetMany reads in chunks of ReadChunkSize, mirroring the keyed-read cap of
// the backing store. Expired and absent keys are simply skipped.
func (r *MatchResultRepository) GetMany(_ context.Context, matchIDs []string) (map[string]matchresult.MatchResult, error) {
	out := make(map[string]matchresult.MatchResult, len(matchIDs))

	for start := 0; start < len(matchIDs); start += matchresult.ReadChunkSize {
		end := start + matchresult.ReadChunkSize
		if end > len(matchIDs) {
			end = len(matchIDs)
		}

		r.mu.RLock()
		for _, matchID := range matchIDs[start:end] {
			item, ok := r.items[matchID]
			if !ok || !item.Fresh(r.now()) {
				continue
			}
			out[matchID] = cloneResult(item)
		}
		r.mu.RUnlock()
	}

	return out, nil
}

// Put is a merge upsert: fields the incoming record leaves empty keep their
// stored values, so a partial provider payload cannot blank an entry.
func (r *MatchResultRepository) Put(_ context.Context, result matchresult.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := cloneResult(result)
	if existing, ok := r.items[result.MatchID]; ok {
		if merged.HomeTeam == "" {
			merged.HomeTeam = existing.HomeTeam
		}
		if merged.AwayTeam == "" {
			merged.AwayTeam = existing.AwayTeam
		}
		if merged.Competition == "" {
			merged.Competition = existing.Competition
		}
		if len(merged.Scorers) == 0 {
			merged.Scorers = append([]string(nil), existing.Scorers...)
		}
	}
	if merged.CachedAt.IsZero() {
		merged.CachedAt = r.now()
	}
	r.items[result.MatchID] = merged

	return nil
}

func (r *MatchResultRepository) GetStale(_ context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return matchresult.MatchResult{}, false, nil
	}

	return cloneResult(item), true, nil
}

func cloneResult(item matchresult.MatchResult) matchresult.MatchResult {
	out := item
	if item.Scorers != nil {
		out.Scorers = append([]string(nil), item.Scorers...)
	}

	return out
}
