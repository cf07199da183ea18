package userstats

import (
	"math"
	"time"
)

// Statistics is the global, incrementally-maintained running aggregate for
// one user. bestStreak >= currentStreak holds at all times.
type Statistics struct {
	UserID           string
	TotalPoints      int
	TotalPredictions int
	CorrectOutcomes  int
	ExactScores      int
	CurrentStreak    int
	BestStreak       int
	Accuracy         float64
	UpdatedAt        time.Time
}

// WeeklyBucket is one chart-ready slice of a user's scored history.
type WeeklyBucket struct {
	WeekStart   time.Time
	Points      int
	Predictions int
}

// RoundAccuracy computes correct/total as a percentage rounded to 2 decimals,
// 0 when total is zero.
func RoundAccuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
