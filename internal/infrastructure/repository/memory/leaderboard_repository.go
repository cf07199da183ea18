package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalcast/goalcast/internal/domain/leaderboard"
)

// LeaderboardRepository keeps materialized boards keyed by (leagueID, period).
// ReplaceByLeague swaps a board wholesale; partially-updated boards are never
// observable.
type LeaderboardRepository struct {
	mu     sync.RWMutex
	boards map[string][]leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{boards: make(map[string][]leaderboard.Entry)}
}

func boardKey(leagueID, period string) string {
	return leagueID + "_" + period
}

func (r *LeaderboardRepository) ListByLeague(_ context.Context, leagueID, period string) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.boards[boardKey(leagueID, period)]
	if !ok {
		return nil, nil
	}

	out := append([]leaderboard.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })

	return out, nil
}

func (r *LeaderboardRepository) ReplaceByLeague(_ context.Context, leagueID, period string, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.boards[boardKey(leagueID, period)] = append([]leaderboard.Entry(nil), entries...)

	return nil
}

func (r *LeaderboardRepository) GetEntry(_ context.Context, leagueID, period, userID string) (leaderboard.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.boards[boardKey(leagueID, period)] {
		if entry.UserID == userID {
			return entry, true, nil
		}
	}

	return leaderboard.Entry{}, false, nil
}
