package httpapi

import (
	"time"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/leaderboard"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/usecase"
)

type matchResultDTO struct {
	MatchID     string    `json:"matchId"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	Status      string    `json:"status"`
	Scorers     []string  `json:"scorers"`
	HomeTeam    string    `json:"homeTeam,omitempty"`
	AwayTeam    string    `json:"awayTeam,omitempty"`
	Competition string    `json:"competition,omitempty"`
	CachedAt    time.Time `json:"cachedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func matchResultToDTO(result matchresult.MatchResult) matchResultDTO {
	scorers := result.Scorers
	if scorers == nil {
		scorers = []string{}
	}
	return matchResultDTO{
		MatchID:     result.MatchID,
		HomeScore:   result.HomeScore,
		AwayScore:   result.AwayScore,
		Status:      result.Status,
		Scorers:     scorers,
		HomeTeam:    result.HomeTeam,
		AwayTeam:    result.AwayTeam,
		Competition: result.Competition,
		CachedAt:    result.CachedAt,
		LastUpdated: result.LastUpdated,
	}
}

type evaluationDTO struct {
	Points         int      `json:"points"`
	ExactScore     bool     `json:"exactScore"`
	CorrectOutcome bool     `json:"correctOutcome"`
	ScorerHits     []string `json:"scorerHits"`
}

type predictionDTO struct {
	UserID     string         `json:"userId"`
	MatchID    string         `json:"matchId"`
	HomeScore  *int           `json:"homeScore"`
	AwayScore  *int           `json:"awayScore"`
	Scorers    []string       `json:"scorers"`
	Status     string         `json:"status"`
	Points     int            `json:"points"`
	Evaluation *evaluationDTO `json:"evaluation,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func predictionToDTO(item prediction.Prediction) predictionDTO {
	scorers := item.Scorers
	if scorers == nil {
		scorers = []string{}
	}
	dto := predictionDTO{
		UserID:    item.UserID,
		MatchID:   item.MatchID,
		HomeScore: item.HomeScore,
		AwayScore: item.AwayScore,
		Scorers:   scorers,
		Status:    item.Status,
		Points:    item.Points,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Evaluation != nil {
		hits := item.Evaluation.ScorerHits
		if hits == nil {
			hits = []string{}
		}
		dto.Evaluation = &evaluationDTO{
			Points:         item.Evaluation.Points,
			ExactScore:     item.Evaluation.ExactScore,
			CorrectOutcome: item.Evaluation.CorrectOutcome,
			ScorerHits:     hits,
		}
	}
	return dto
}

type weeklyBucketDTO struct {
	WeekStart   time.Time `json:"weekStart"`
	Points      int       `json:"points"`
	Predictions int       `json:"predictions"`
}

type statisticsDTO struct {
	UserID           string            `json:"userId"`
	TotalPoints      int               `json:"totalPoints"`
	TotalPredictions int               `json:"totalPredictions"`
	CorrectOutcomes  int               `json:"correctOutcomes"`
	ExactScores      int               `json:"exactScores"`
	CurrentStreak    int               `json:"currentStreak"`
	BestStreak       int               `json:"bestStreak"`
	Accuracy         float64           `json:"accuracy"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	Weekly           []weeklyBucketDTO `json:"weeklyBreakdown"`
}

func statisticsReportToDTO(userID string, report usecase.StatisticsReport) statisticsDTO {
	weekly := make([]weeklyBucketDTO, 0, len(report.Weekly))
	for _, bucket := range report.Weekly {
		weekly = append(weekly, weeklyBucketDTO(bucket))
	}
	stats := report.Stats
	if stats.UserID == "" {
		stats.UserID = userID
	}
	return statisticsDTO{
		UserID:           stats.UserID,
		TotalPoints:      stats.TotalPoints,
		TotalPredictions: stats.TotalPredictions,
		CorrectOutcomes:  stats.CorrectOutcomes,
		ExactScores:      stats.ExactScores,
		CurrentStreak:    stats.CurrentStreak,
		BestStreak:       stats.BestStreak,
		Accuracy:         stats.Accuracy,
		UpdatedAt:        stats.UpdatedAt,
		Weekly:           weekly,
	}
}

type leaderboardEntryDTO struct {
	Rank             int       `json:"rank"`
	UserID           string    `json:"userId"`
	TotalPoints      int       `json:"totalPoints"`
	TotalPredictions int       `json:"totalPredictions"`
	Accuracy         float64   `json:"accuracy"`
	ExactScores      int       `json:"exactScores"`
	CorrectOutcomes  int       `json:"correctOutcomes"`
	CorrectScorers   int       `json:"correctScorers"`
	CurrentStreak    int       `json:"currentStreak"`
	BestStreak       int       `json:"bestStreak"`
	LastMatchPoints  int       `json:"lastMatchPoints"`
	PointsFromFirst  int       `json:"pointsFromFirst"`
	Trend            string    `json:"trend"`
	RecentForm       string    `json:"recentForm"`
	CalculatedAt     time.Time `json:"calculatedAt"`
}

func rankedEntryToDTO(entry leaderboard.RankedEntry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:             entry.Rank,
		UserID:           entry.UserID,
		TotalPoints:      entry.TotalPoints,
		TotalPredictions: entry.TotalPredictions,
		Accuracy:         entry.Accuracy,
		ExactScores:      entry.ExactScores,
		CorrectOutcomes:  entry.CorrectOutcomes,
		CorrectScorers:   entry.CorrectScorers,
		CurrentStreak:    entry.CurrentStreak,
		BestStreak:       entry.BestStreak,
		LastMatchPoints:  entry.LastMatchPoints,
		PointsFromFirst:  entry.PointsFromFirst,
		Trend:            entry.Trend,
		RecentForm:       entry.RecentForm,
		CalculatedAt:     entry.CalculatedAt,
	}
}

type leaderboardDTO struct {
	LeagueID string                `json:"leagueId"`
	Period   string                `json:"period"`
	Entries  []leaderboardEntryDTO `json:"entries"`
}

type positionDTO struct {
	leaderboardEntryDTO
	Percentile float64 `json:"percentile"`
	TotalUsers int     `json:"totalUsers"`
}

func positionToDTO(position leaderboard.Position) positionDTO {
	return positionDTO{
		leaderboardEntryDTO: rankedEntryToDTO(position.RankedEntry),
		Percentile:          position.Percentile,
		TotalUsers:          position.TotalUsers,
	}
}

type achievementStatusDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Rarity       string     `json:"rarity"`
	Points       int        `json:"points"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedDate *time.Time `json:"unlockedDate,omitempty"`
	Progress     float64    `json:"progress"`
	Remaining    string     `json:"remaining,omitempty"`
}

func achievementStatusToDTO(status achievement.Status) achievementStatusDTO {
	return achievementStatusDTO{
		ID:           status.Definition.ID,
		Title:        status.Definition.Title,
		Description:  status.Definition.Description,
		Category:     status.Definition.Category,
		Rarity:       status.Definition.Rarity,
		Points:       status.Definition.Points,
		Unlocked:     status.Record.Unlocked,
		UnlockedDate: status.Record.UnlockedDate,
		Progress:     status.Record.Progress,
		Remaining:    status.Remaining,
	}
}

type achievementSummaryDTO struct {
	Achievements []achievementStatusDTO `json:"achievements"`
	Unlocked     int                    `json:"unlockedCount"`
	Total        int                    `json:"totalCount"`
	Points       int                    `json:"achievementPoints"`
	Rare         int                    `json:"rareCount"`
	Recent       []achievementStatusDTO `json:"recentUnlocks"`
}

func achievementSummaryToDTO(summary achievement.Summary) achievementSummaryDTO {
	achievements := make([]achievementStatusDTO, 0, len(summary.Achievements))
	for _, status := range summary.Achievements {
		achievements = append(achievements, achievementStatusToDTO(status))
	}
	recent := make([]achievementStatusDTO, 0, len(summary.Recent))
	for _, status := range summary.Recent {
		recent = append(recent, achievementStatusToDTO(status))
	}
	return achievementSummaryDTO{
		Achievements: achievements,
		Unlocked:     summary.Unlocked,
		Total:        summary.Total,
		Points:       summary.Points,
		Rare:         summary.Rare,
		Recent:       recent,
	}
}

type updateSummaryDTO struct {
	Updated   int      `json:"updated"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

func updateSummaryToDTO(summary usecase.UpdateSummary) updateSummaryDTO {
	errs := summary.Errors
	if errs == nil {
		errs = []string{}
	}
	return updateSummaryDTO{
		Updated:   summary.Updated,
		Processed: summary.Processed,
		Errors:    errs,
	}
}
