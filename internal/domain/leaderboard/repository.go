package leaderboard

import "context"

// Repository stores materialized ranking rows keyed leagueID_userID per
// period. ReplaceByLeague swaps a league's rows for one period in a single
// pass; rows disappear only when the league or membership is deleted, which
// is the league collaborator's responsibility.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID, period string) ([]Entry, error)
	ReplaceByLeague(ctx context.Context, leagueID, period string, entries []Entry) error
	GetEntry(ctx context.Context, leagueID, period, userID string) (Entry, bool, error)
}
