package achievement

import (
	"time"

	"github.com/goalcast/goalcast/internal/domain/userstats"
)

const (
	CategoryPredictions = "predictions"
	CategoryPoints      = "points"
	CategoryExact       = "exact_scores"
	CategoryStreak      = "streaks"
	CategoryAccuracy    = "accuracy"
	CategoryWeekly      = "weekly"
)

const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Input is everything a rule may look at. Weekly buckets feed the small
// number of week-scoped rules.
type Input struct {
	Stats  userstats.Statistics
	Weekly []userstats.WeeklyBucket
}

// Definition is one static rule, constant for the process lifetime.
type Definition struct {
	ID          string
	Title       string
	Description string
	Category    string
	Rarity      string
	Points      int
	Unlocked    func(in Input) bool
	// Progress reports completion 0..100 for a locked definition.
	Progress func(in Input) float64
	// Remaining phrases what is still needed, shown on locked rows.
	Remaining func(in Input) string
}

// Record is the stored per-user state for one definition. unlocked=true is
// sticky: recomputation never resets it.
type Record struct {
	ID           string
	Unlocked     bool
	UnlockedDate *time.Time
	Progress     float64
}

// Status is one definition joined with its record for display.
type Status struct {
	Definition Definition
	Record     Record
	Remaining  string
}

// Summary is the full evaluation output for one user.
type Summary struct {
	Achievements []Status
	Unlocked     int
	Total        int
	Points       int
	Rare         int
	Recent       []Status
}

// IsRare counts epic and legendary tiers.
func IsRare(rarity string) bool {
	return rarity == RarityEpic || rarity == RarityLegendary
}
