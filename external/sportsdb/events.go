package sportsdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
)

type eventsEnvelope struct {
	Events []eventItem `json:"events"`
}

// eventItem mirrors the provider's event payload. Scores and ids arrive as
// strings, empty when the field is unknown.
type eventItem struct {
	ID              string `json:"idEvent"`
	LeagueID        string `json:"idLeague"`
	LeagueName      string `json:"strLeague"`
	Country         string `json:"strCountry"`
	Season          string `json:"strSeason"`
	HomeTeam        string `json:"strHomeTeam"`
	AwayTeam        string `json:"strAwayTeam"`
	HomeScore       string `json:"intHomeScore"`
	AwayScore       string `json:"intAwayScore"`
	Status          string `json:"strStatus"`
	DateEvent       string `json:"dateEvent"`
	TimeEvent       string `json:"strTime"`
	Timestamp       string `json:"strTimestamp"`
	HomeGoalDetails string `json:"strHomeGoalDetails"`
	AwayGoalDetails string `json:"strAwayGoalDetails"`
}

func mapEventToMatch(event eventItem, comp competition.Competition) (match.Match, bool) {
	if strings.TrimSpace(event.ID) == "" {
		return match.Match{}, false
	}
	kickoff, ok := parseKickoff(event)
	if !ok {
		return match.Match{}, false
	}
	return match.Match{
		ID:          event.ID,
		Competition: comp.Slug,
		HomeTeam:    strings.TrimSpace(event.HomeTeam),
		AwayTeam:    strings.TrimSpace(event.AwayTeam),
		KickoffAt:   kickoff,
		Status:      match.NormalizeStatus(event.Status),
		Season:      strings.TrimSpace(event.Season),
	}, true
}

func mapEventToResult(event eventItem, comp competition.Competition, now time.Time) (matchresult.MatchResult, bool) {
	result, ok := buildResult(event, now)
	if !ok {
		return matchresult.MatchResult{}, false
	}
	result.Competition = comp.Slug
	return result, true
}

// mapLookupToResult handles single-event lookups, where no competition
// context exists; the provider's league name stands in.
func mapLookupToResult(event eventItem, now time.Time) (matchresult.MatchResult, bool) {
	result, ok := buildResult(event, now)
	if !ok {
		return matchresult.MatchResult{}, false
	}
	result.Competition = strings.TrimSpace(event.LeagueName)
	return result, true
}

func buildResult(event eventItem, now time.Time) (matchresult.MatchResult, bool) {
	if strings.TrimSpace(event.ID) == "" {
		return matchresult.MatchResult{}, false
	}

	result := matchresult.MatchResult{
		MatchID:     event.ID,
		Status:      strings.ToUpper(strings.TrimSpace(event.Status)),
		HomeTeam:    strings.TrimSpace(event.HomeTeam),
		AwayTeam:    strings.TrimSpace(event.AwayTeam),
		Scorers:     parseGoalDetails(event.HomeGoalDetails, event.AwayGoalDetails),
		CachedAt:    now,
		LastUpdated: now,
	}

	home, homeOK := parseScore(event.HomeScore)
	away, awayOK := parseScore(event.AwayScore)
	if !homeOK || !awayOK {
		return matchresult.MatchResult{}, false
	}
	result.HomeScore = home
	result.AwayScore = away

	if !result.IsFinished() {
		return matchresult.MatchResult{}, false
	}
	return result, true
}

func parseScore(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	score, err := strconv.Atoi(raw)
	if err != nil || score < 0 {
		return 0, false
	}
	return score, true
}

// parseGoalDetails flattens the provider's semicolon-separated goal strings
// into a deduplicated scorer name list. Minute prefixes and suffixes such as
// "23':" or "90'+2" are stripped.
func parseGoalDetails(details ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, detail := range details {
		for _, segment := range strings.Split(detail, ";") {
			name := cleanScorerName(segment)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func cleanScorerName(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}
	// "23':Name" form.
	if idx := strings.Index(segment, ":"); idx >= 0 && isMinuteToken(segment[:idx]) {
		segment = segment[idx+1:]
	}
	fields := strings.Fields(segment)
	kept := fields[:0]
	for _, field := range fields {
		if isMinuteToken(field) {
			continue
		}
		kept = append(kept, field)
	}
	name := strings.Join(kept, " ")
	name = strings.Trim(name, ":-")
	if strings.EqualFold(name, "penalty") || strings.EqualFold(name, "own goal") {
		return ""
	}
	return strings.TrimSpace(name)
}

// isMinuteToken matches "23'", "90'+2", "(45')" style fragments.
func isMinuteToken(token string) bool {
	token = strings.Trim(strings.TrimSpace(token), "()")
	if token == "" {
		return false
	}
	sawDigit := false
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9':
			sawDigit = true
		case r == '\'' || r == '+':
		default:
			return false
		}
	}
	return sawDigit
}

func parseKickoff(event eventItem) (time.Time, bool) {
	if ts := strings.TrimSpace(event.Timestamp); ts != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, ts); err == nil {
				return parsed.UTC(), true
			}
		}
	}

	date := strings.TrimSpace(event.DateEvent)
	if date == "" {
		return time.Time{}, false
	}
	clock := strings.TrimSpace(event.TimeEvent)
	if clock == "" {
		clock = "00:00:00"
	}
	parsed, err := time.Parse("2006-01-02 15:04:05", date+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
