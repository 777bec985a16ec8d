package types

// QueryCategory represents the classified intent of a user query
type QueryCategory string

const (
	QueryTeamAnalysis    QueryCategory = "team_analysis"
	QueryMatchPrediction QueryCategory = "match_prediction"
	QueryBettingStrategy QueryCategory = "betting_strategy"
	QueryPlayerAnalysis  QueryCategory = "player_analysis"
	QueryLeagueAnalysis  QueryCategory = "league_analysis"
	QueryMarketAnalysis  QueryCategory = "market_analysis"
	QueryGeneral         QueryCategory = "general"
)

// String returns the string representation of QueryCategory
func (q QueryCategory) String() string {
	return string(q)
}
