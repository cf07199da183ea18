package achievement

import "fmt"

// Definitions returns the fixed, ordered rule set. The order is part of the
// contract: summaries and progress lists follow it.
func Definitions() []Definition {
	return []Definition{
		countDef("first_prediction", "First Call", "Make your first prediction",
			CategoryPredictions, RarityCommon, 5, 1, totalPredictions, "prediction"),
		countDef("getting_started", "Getting Started", "Make 10 predictions",
			CategoryPredictions, RarityCommon, 10, 10, totalPredictions, "prediction"),
		countDef("regular", "Regular", "Make 50 predictions",
			CategoryPredictions, RarityRare, 25, 50, totalPredictions, "prediction"),
		countDef("centurion", "Centurion", "Make 100 predictions",
			CategoryPredictions, RarityEpic, 50, 100, totalPredictions, "prediction"),
		countDef("marathon", "Marathon", "Make 250 predictions",
			CategoryPredictions, RarityLegendary, 100, 250, totalPredictions, "prediction"),

		countDef("off_the_mark", "Off the Mark", "Earn your first point",
			CategoryPoints, RarityCommon, 5, 1, totalPoints, "point"),
		countDef("point_collector", "Point Collector", "Earn 50 points",
			CategoryPoints, RarityCommon, 15, 50, totalPoints, "point"),
		countDef("triple_digits", "Triple Digits", "Earn 100 points",
			CategoryPoints, RarityRare, 25, 100, totalPoints, "point"),
		countDef("point_machine", "Point Machine", "Earn 250 points",
			CategoryPoints, RarityEpic, 50, 250, totalPoints, "point"),
		countDef("legend", "Legend", "Earn 500 points",
			CategoryPoints, RarityLegendary, 100, 500, totalPoints, "point"),

		countDef("bullseye", "Bullseye", "Predict an exact score",
			CategoryExact, RarityCommon, 10, 1, exactScores, "exact score"),
		countDef("sniper", "Sniper", "Predict 5 exact scores",
			CategoryExact, RarityRare, 25, 5, exactScores, "exact score"),
		countDef("sharpshooter", "Sharpshooter", "Predict 15 exact scores",
			CategoryExact, RarityEpic, 50, 15, exactScores, "exact score"),
		countDef("oracle", "Oracle", "Predict 30 exact scores",
			CategoryExact, RarityLegendary, 100, 30, exactScores, "exact score"),

		countDef("on_a_roll", "On a Roll", "Score points in 3 predictions in a row",
			CategoryStreak, RarityCommon, 10, 3, bestStreak, "streak win"),
		countDef("hot_streak", "Hot Streak", "Score points in 5 predictions in a row",
			CategoryStreak, RarityRare, 25, 5, bestStreak, "streak win"),
		countDef("unstoppable", "Unstoppable", "Score points in 10 predictions in a row",
			CategoryStreak, RarityEpic, 50, 10, bestStreak, "streak win"),
		countDef("clairvoyant", "Clairvoyant", "Score points in 20 predictions in a row",
			CategoryStreak, RarityLegendary, 100, 20, bestStreak, "streak win"),

		accuracyDef("steady_eye", "Steady Eye", "Reach 50% accuracy over 20+ predictions",
			RarityRare, 25, 50, 20),
		accuracyDef("precision_master", "Precision Master", "Reach 70% accuracy over 50+ predictions",
			RarityEpic, 50, 70, 50),

		weeklyPointsDef("purple_patch", "Purple Patch", "Earn 20 points in a single week",
			RarityRare, 25, 20),
		weeklyCountDef("busy_week", "Busy Week", "Make 7 predictions in a single week",
			RarityCommon, 15, 7),
	}
}

func totalPredictions(in Input) int { return in.Stats.TotalPredictions }
func totalPoints(in Input) int      { return in.Stats.TotalPoints }
func exactScores(in Input) int      { return in.Stats.ExactScores }
func bestStreak(in Input) int       { return in.Stats.BestStreak }

func countDef(id, title, description, category, rarity string, points, threshold int, get func(Input) int, unit string) Definition {
	return Definition{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    category,
		Rarity:      rarity,
		Points:      points,
		Unlocked:    func(in Input) bool { return get(in) >= threshold },
		Progress:    func(in Input) float64 { return ratioProgress(get(in), threshold) },
		Remaining: func(in Input) string {
			return remainingText(threshold-get(in), unit)
		},
	}
}

func accuracyDef(id, title, description, rarity string, points int, minAccuracy float64, minPredictions int) Definition {
	return Definition{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    CategoryAccuracy,
		Rarity:      rarity,
		Points:      points,
		Unlocked: func(in Input) bool {
			return in.Stats.TotalPredictions >= minPredictions && in.Stats.Accuracy >= minAccuracy
		},
		Progress: func(in Input) float64 {
			volume := ratioProgress(in.Stats.TotalPredictions, minPredictions)
			precision := clampProgress(in.Stats.Accuracy / minAccuracy * 100)
			if volume < precision {
				return volume
			}
			return precision
		},
		Remaining: func(in Input) string {
			if in.Stats.TotalPredictions < minPredictions {
				return remainingText(minPredictions-in.Stats.TotalPredictions, "prediction")
			}
			return fmt.Sprintf("reach %.0f%% accuracy (now %.2f%%)", minAccuracy, in.Stats.Accuracy)
		},
	}
}

func weeklyPointsDef(id, title, description, rarity string, points, threshold int) Definition {
	best := func(in Input) int {
		top := 0
		for _, bucket := range in.Weekly {
			if bucket.Points > top {
				top = bucket.Points
			}
		}
		return top
	}
	def := countDef(id, title, description, CategoryWeekly, rarity, points, threshold, best, "point")
	def.Remaining = func(in Input) string {
		missing := threshold - best(in)
		if missing <= 0 {
			return "done"
		}
		return fmt.Sprintf("%d more points in a single week", missing)
	}
	return def
}

func weeklyCountDef(id, title, description, rarity string, points, threshold int) Definition {
	best := func(in Input) int {
		top := 0
		for _, bucket := range in.Weekly {
			if bucket.Predictions > top {
				top = bucket.Predictions
			}
		}
		return top
	}
	def := countDef(id, title, description, CategoryWeekly, rarity, points, threshold, best, "prediction")
	def.Remaining = func(in Input) string {
		missing := threshold - best(in)
		if missing <= 0 {
			return "done"
		}
		return fmt.Sprintf("%d more predictions in a single week", missing)
	}
	return def
}

func ratioProgress(current, threshold int) float64 {
	if threshold <= 0 {
		return 100
	}
	return clampProgress(float64(current) / float64(threshold) * 100)
}

func clampProgress(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func remainingText(missing int, unit string) string {
	if missing <= 0 {
		return "done"
	}
	if missing == 1 {
		return fmt.Sprintf("1 more %s", unit)
	}
	return fmt.Sprintf("%d more %ss", missing, unit)
}
