package tools

import (
	"strings"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/service/extract"
)

// knownPlayers maps surface forms to display names for player stat lookups.
// Small on purpose; anything unmatched means the stats tool is skipped
// rather than queried with a guess.
var knownPlayers = map[string]string{
	"salah":       "Mohamed Salah",
	"van dijk":    "Virgil van Dijk",
	"alisson":     "Alisson Becker",
	"haaland":     "Erling Haaland",
	"de bruyne":   "Kevin De Bruyne",
	"rodri":       "Rodri",
	"foden":       "Phil Foden",
	"saka":        "Bukayo Saka",
	"odegaard":    "Martin Odegaard",
	"palmer":      "Cole Palmer",
	"son":         "Son Heung-min",
	"bruno":       "Bruno Fernandes",
	"rashford":    "Marcus Rashford",
	"messi":       "Lionel Messi",
	"ronaldo":     "Cristiano Ronaldo",
	"mbappe":      "Kylian Mbappe",
	"bellingham":  "Jude Bellingham",
	"vinicius":    "Vinicius Junior",
	"lewandowski": "Robert Lewandowski",
	"kane":        "Harry Kane",
	"musiala":     "Jamal Musiala",
	"lautaro":     "Lautaro Martinez",
	"osimhen":     "Victor Osimhen",
	"griezmann":   "Antoine Griezmann",
}

// resolveTeams returns up to two teams: query mentions first in order of
// appearance, then the profile's favorites to fill the gap.
func resolveTeams(extractor *extract.Extractor, query string, profile *model.UserProfile) []string {
	teams := extractor.TeamMentions(query)
	if profile != nil {
		for _, fav := range profile.FavoriteTeams {
			if len(teams) >= 2 {
				break
			}
			if !contains(teams, fav) {
				teams = append(teams, fav)
			}
		}
	}
	if len(teams) > 2 {
		teams = teams[:2]
	}
	return teams
}

// resolveLeague prefers a league named in the query, then the profile's
// first favorite. Empty means unresolvable.
func resolveLeague(extractor *extract.Extractor, query string, profile *model.UserProfile) string {
	if leagues := extractor.Leagues(query); len(leagues) > 0 {
		return leagues[0]
	}
	if profile != nil && len(profile.FavoriteLeagues) > 0 {
		return profile.FavoriteLeagues[0]
	}
	return ""
}

// resolvePlayer finds the first known player mentioned in the query
func resolvePlayer(query string) string {
	lower := strings.ToLower(query)
	best := ""
	bestPos := -1
	for surface, display := range knownPlayers {
		pos := strings.Index(lower, surface)
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos {
			best = display
			bestPos = pos
		}
	}
	return best
}

// matchID derives a stable fixture identifier from a home/away pair
func matchID(home, away string) string {
	slug := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "_")
	}
	return slug(home) + "_vs_" + slug(away)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}
