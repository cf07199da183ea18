package memory

import (
	"time"

	"github.com/goalcast/goalcast/internal/domain/league"
	"github.com/goalcast/goalcast/internal/domain/match"
)

const (
	LeagueIDOfficePool   = "office-pool"
	LeagueIDWeekendClash = "weekend-clash"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:           LeagueIDOfficePool,
			Name:         "Office Pool",
			Competitions: []string{"premier-league", "la-liga"},
		},
		{
			ID:           LeagueIDWeekendClash,
			Name:         "Weekend Clash",
			Competitions: []string{"premier-league", "serie-a", "bundesliga"},
		},
	}
}

func SeedLeagueMembers() map[string][]string {
	return map[string][]string{
		LeagueIDOfficePool:   {"user-ana", "user-bram", "user-cleo"},
		LeagueIDWeekendClash: {"user-bram", "user-dian", "user-emre"},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:          "2070001",
			Competition: "premier-league",
			HomeTeam:    "Arsenal",
			AwayTeam:    "Liverpool",
			KickoffAt:   time.Date(2026, 9, 5, 16, 30, 0, 0, time.UTC),
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
		{
			ID:          "2070002",
			Competition: "premier-league",
			HomeTeam:    "Manchester City",
			AwayTeam:    "Chelsea",
			KickoffAt:   time.Date(2026, 9, 6, 15, 0, 0, 0, time.UTC),
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
		{
			ID:          "2070003",
			Competition: "la-liga",
			HomeTeam:    "Real Madrid",
			AwayTeam:    "Barcelona",
			KickoffAt:   time.Date(2026, 9, 6, 19, 0, 0, 0, time.UTC),
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
		{
			ID:          "2070004",
			Competition: "serie-a",
			HomeTeam:    "Inter",
			AwayTeam:    "Juventus",
			KickoffAt:   time.Date(2026, 9, 7, 18, 45, 0, 0, time.UTC),
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
		{
			ID:          "2070005",
			Competition: "bundesliga",
			HomeTeam:    "Bayern Munich",
			AwayTeam:    "Borussia Dortmund",
			KickoffAt:   time.Date(2026, 9, 7, 17, 30, 0, 0, time.UTC),
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
	}
}
