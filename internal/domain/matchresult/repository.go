package matchresult

import "context"

// ReadChunkSize caps multi-key reads; the backing store limits "in"-style
// queries to ten keys, so GetMany implementations fetch in chunks.
const ReadChunkSize = 10

// Repository is the cache-aside store for finalized results. Get returns
// ok=false both for absent keys and for entries past the 24h TTL; callers
// decide whether to go to the gateway. Put is a merge upsert and concurrent
// writers are last-write-wins.
type Repository interface {
	Get(ctx context.Context, matchID string) (MatchResult, bool, error)
	GetMany(ctx context.Context, matchIDs []string) (map[string]MatchResult, error)
	Put(ctx context.Context, result MatchResult) error
	// GetStale returns an expired entry when present, for degraded reads
	// after a fetch failure.
	GetStale(ctx context.Context, matchID string) (MatchResult, bool, error)
}
