package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/league"
)

// LeagueRepository keeps league definitions and their member lists. The
// "general" league is implicit: it always resolves and its membership is the
// union of every league's members.
type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	members map[string][]string
}

func NewLeagueRepository(leagues []league.League, members map[string][]string) *LeagueRepository {
	byID := make(map[string]league.League, len(leagues))
	for _, item := range leagues {
		byID[item.ID] = cloneLeague(item)
	}
	byLeague := make(map[string][]string, len(members))
	for leagueID, userIDs := range members {
		byLeague[leagueID] = append([]string(nil), userIDs...)
	}

	return &LeagueRepository{leagues: byID, members: byLeague}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	if leagueID == leaderboard.GeneralLeague {
		return league.League{ID: leaderboard.GeneralLeague, Name: "General"}, true, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(item), true, nil
}

func (r *LeagueRepository) ListMemberIDs(_ context.Context, leagueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if leagueID == leaderboard.GeneralLeague {
		return r.allMemberIDs(), nil
	}

	return append([]string(nil), r.members[leagueID]...), nil
}

func (r *LeagueRepository) allMemberIDs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, userIDs := range r.members {
		for _, userID := range userIDs {
			if _, ok := seen[userID]; ok {
				continue
			}
			seen[userID] = struct{}{}
			out = append(out, userID)
		}
	}
	sort.Strings(out)

	return out
}

func cloneLeague(item league.League) league.League {
	out := item
	if item.Competitions != nil {
		out.Competitions = append([]string(nil), item.Competitions...)
	}

	return out
}
