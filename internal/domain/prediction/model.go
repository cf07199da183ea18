package prediction

import (
	"strings"
	"time"
)

const (
	StatusPending = "pending"
	StatusScored  = "scored"
)

const MaxScorers = 3

// Prediction is one user's forecast for one match. The composite key
// userID_matchID makes the pair unique without a separate check.
type Prediction struct {
	UserID     string
	MatchID    string
	HomeScore  *int
	AwayScore  *int
	Scorers    []string
	Status     string
	Points     int
	Evaluation *Evaluation
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Evaluation is derived by the scoring engine and never mutated independently.
type Evaluation struct {
	Points         int
	ExactScore     bool
	CorrectOutcome bool
	ScorerHits     []string
}

// Key builds the composite document key for a (user, match) pair.
func Key(userID, matchID string) string {
	return userID + "_" + matchID
}

func (p Prediction) IsScored() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), StatusScored)
}

// NormalizeScorers trims, lowercases for comparison, and dedupes while
// preserving the submitted order. The returned slice keeps original casing.
func NormalizeScorers(scorers []string) []string {
	if len(scorers) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(scorers))
	out := make([]string, 0, len(scorers))
	for _, raw := range scorers {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		lowered := strings.ToLower(name)
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		out = append(out, name)
		if len(out) == MaxScorers {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
