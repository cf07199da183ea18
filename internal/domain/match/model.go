package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Match is one scheduled or played fixture as known to the game.
type Match struct {
	ID          string
	Competition string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Status      string
	Season      string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// Started reports whether predictions for the match are closed.
func (m Match) Started(now time.Time) bool {
	return !m.KickoffAt.IsZero() && !now.Before(m.KickoffAt)
}
