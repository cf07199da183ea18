package leaderboard

import "time"

const (
	// GeneralLeague scopes the global board spanning every user.
	GeneralLeague = "general"

	PeriodOverall = "overall"
)

const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendSame = "same"
)

const (
	FormExcellent = "excellent"
	FormGood      = "good"
	FormAverage   = "average"
	FormPoor      = "poor"
)

// Entry is one materialized ranking row, keyed (leagueID, period, userID).
// It is rebuilt wholesale during recalculation, never patched incrementally.
type Entry struct {
	LeagueID         string
	Period           string
	UserID           string
	TotalPoints      int
	TotalPredictions int
	Accuracy         float64
	ExactScores      int
	CorrectOutcomes  int
	CorrectScorers   int
	CurrentStreak    int
	BestStreak       int
	LastMatchPoints  int
	Rank             int
	CalculatedAt     time.Time
}

// RankedEntry decorates an Entry with fields derived at read time.
type RankedEntry struct {
	Entry
	PointsFromFirst int
	Trend           string
	RecentForm      string
}

// Position is a single user's ranked view including their percentile.
type Position struct {
	RankedEntry
	Percentile float64
	TotalUsers int
}

// Trend maps the sign of the last scored match's points to a direction.
func Trend(lastMatchPoints int) string {
	switch {
	case lastMatchPoints > 0:
		return TrendUp
	case lastMatchPoints < 0:
		return TrendDown
	default:
		return TrendSame
	}
}

// RecentForm buckets the current streak.
func RecentForm(currentStreak int) string {
	switch {
	case currentStreak >= 3:
		return FormExcellent
	case currentStreak >= 2:
		return FormGood
	case currentStreak >= 1:
		return FormAverage
	default:
		return FormPoor
	}
}
