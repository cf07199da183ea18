package matchresult

import (
	"strings"
	"time"
)

const (
	StatusFinished  = "FINISHED"
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
)

// CacheTTL is how long a stored result stays servable. Entries older than
// this are treated identically to a miss regardless of content.
const CacheTTL = 24 * time.Hour

// MatchResult is one finalized match as cached from the provider. Immutable
// once the match is truly finished; writes are merge upserts so duplicate
// cache fills converge.
type MatchResult struct {
	MatchID     string
	HomeScore   int
	AwayScore   int
	Status      string
	Scorers     []string
	HomeTeam    string
	AwayTeam    string
	Competition string
	CachedAt    time.Time
	LastUpdated time.Time
}

func (r MatchResult) IsFinished() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case StatusFinished, "FT", "AET", "PEN", "MATCH FINISHED":
		return true
	default:
		return false
	}
}

// Fresh reports whether the entry is inside the cache TTL at the given time.
func (r MatchResult) Fresh(now time.Time) bool {
	if r.CachedAt.IsZero() {
		return false
	}
	return now.Sub(r.CachedAt) < CacheTTL
}

// Outcome categorizes the final score as a home win, away win, or draw.
func Outcome(home, away int) string {
	switch {
	case home > away:
		return "home"
	case away > home:
		return "away"
	default:
		return "draw"
	}
}

// HasScorer checks scorer membership case-insensitively on trimmed names.
func (r MatchResult) HasScorer(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, scorer := range r.Scorers {
		if strings.ToLower(strings.TrimSpace(scorer)) == needle {
			return true
		}
	}
	return false
}
