package classify

import (
	"strings"

	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

type categoryKeywords struct {
	Category types.QueryCategory
	Keywords []string
}

// categoryRules are checked in order; the first bucket with a keyword hit
// wins. Team analysis outranks match prediction so "team form" style queries
// do not get swallowed by the broader match keywords.
var categoryRules = []categoryKeywords{
	{types.QueryTeamAnalysis, []string{
		"team", "form", "performance", "squad", "players", "manager", "tactics",
	}},
	{types.QueryMatchPrediction, []string{
		"vs", "match", "game", "fixture", "prediction", "who will win", "score",
	}},
	{types.QueryBettingStrategy, []string{
		"bet", "odds", "value", "strategy", "bankroll", "stake", "profitable",
	}},
	{types.QueryPlayerAnalysis, []string{
		"player", "injury", "suspension", "transfer", "goals", "assists",
	}},
	{types.QueryLeagueAnalysis, []string{
		"league", "table", "standings", "championship", "premier league", "champions league",
	}},
	{types.QueryMarketAnalysis, []string{
		"market", "odds", "bookmaker", "price", "movement", "value bet",
	}},
}

// Classify assigns a query to the category steering retrieval and prompt
// selection. Unmatched queries fall through to general.
func Classify(query string) types.QueryCategory {
	lower := strings.ToLower(query)

	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category
			}
		}
	}

	return types.QueryGeneral
}
