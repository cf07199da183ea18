package sportsdb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goalcast/goalcast/internal/domain/competition"
)

// seasonCandidates builds the ordered season list the fallback search walks:
// explicit override first, then the competition's hints, then the cached
// season for the league, then the season derived from today's date. Every
// candidate is immediately followed by its preceding season, and duplicates
// keep their first position.
func (c *Client) seasonCandidates(comp competition.Competition) []string {
	raw := make([]string, 0, 8)
	appendWithPreceding := func(season string) {
		season = strings.TrimSpace(season)
		if season == "" {
			return
		}
		raw = append(raw, season)
		if prev, ok := precedingSeason(season); ok {
			raw = append(raw, prev)
		}
	}

	appendWithPreceding(c.seasonOverride)
	for _, hint := range comp.SeasonHints {
		appendWithPreceding(hint)
	}
	if cached, ok := c.cachedSeason(comp.ProviderLeagueID); ok {
		appendWithPreceding(cached)
	}
	appendWithPreceding(currentSeasonAt(c.now().UTC()))

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, season := range raw {
		if _, dup := seen[season]; dup {
			continue
		}
		seen[season] = struct{}{}
		out = append(out, season)
	}
	return out
}

// currentSeasonAt derives a European cross-year season label. July marks the
// boundary between seasons.
func currentSeasonAt(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.July {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// precedingSeason shifts a "2025-2026" style label one season back. Labels
// in any other format pass through the fallback list as-is with no
// predecessor.
func precedingSeason(season string) (string, bool) {
	parts := strings.SplitN(season, "-", 2)
	if len(parts) != 2 {
		return "", false
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%d-%d", start-1, end-1), true
}
