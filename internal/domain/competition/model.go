package competition

import "strings"

// Competition maps a game-side slug to one provider league, with the
// metadata needed to validate provider events that arrive with mismatched
// league fields.
type Competition struct {
	Slug             string
	Name             string
	ProviderLeagueID string
	Aliases          []string
	Country          string
	// SeasonHints seed the season-fallback candidate list, newest first.
	SeasonHints []string
}

// MatchesEvent validates a provider event against this competition by league
// id first, then by name alias, then by country. Provider metadata is
// occasionally cross-contaminated, so id alone is not trusted when absent.
func (c Competition) MatchesEvent(leagueID, leagueName, country string) bool {
	if id := strings.TrimSpace(leagueID); id != "" && id == c.ProviderLeagueID {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(leagueName))
	if name != "" {
		if name == strings.ToLower(c.Name) {
			return true
		}
		for _, alias := range c.Aliases {
			if name == strings.ToLower(strings.TrimSpace(alias)) {
				return true
			}
		}
	}
	if c.Country != "" && strings.EqualFold(strings.TrimSpace(country), c.Country) {
		return true
	}
	return false
}

// DefaultRegistry seeds the competitions the game tracks out of the box.
func DefaultRegistry() []Competition {
	return []Competition{
		{
			Slug:             "premier-league",
			Name:             "English Premier League",
			ProviderLeagueID: "4328",
			Aliases:          []string{"Premier League", "EPL"},
			Country:          "England",
		},
		{
			Slug:             "la-liga",
			Name:             "Spanish La Liga",
			ProviderLeagueID: "4335",
			Aliases:          []string{"La Liga", "LaLiga Santander", "Primera Division"},
			Country:          "Spain",
		},
		{
			Slug:             "serie-a",
			Name:             "Italian Serie A",
			ProviderLeagueID: "4332",
			Aliases:          []string{"Serie A"},
			Country:          "Italy",
		},
		{
			Slug:             "bundesliga",
			Name:             "German Bundesliga",
			ProviderLeagueID: "4331",
			Aliases:          []string{"Bundesliga", "1. Bundesliga"},
			Country:          "Germany",
		},
		{
			Slug:             "ligue-1",
			Name:             "French Ligue 1",
			ProviderLeagueID: "4334",
			Aliases:          []string{"Ligue 1", "Ligue 1 Uber Eats"},
			Country:          "France",
		},
	}
}

// BySlug indexes a registry for lookup.
func BySlug(items []Competition) map[string]Competition {
	out := make(map[string]Competition, len(items))
	for _, item := range items {
		out[item.Slug] = item
	}
	return out
}
