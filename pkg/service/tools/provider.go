package tools

import (
	"context"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// Provider is the gateway to external sportsbook and football data sources.
// Implementations are expected to be safe for concurrent use; the executor
// fires multiple calls in parallel.
type Provider interface {
	LiveOdds(ctx context.Context, matchID, bookmaker string) (*OddsData, error)
	TeamForm(ctx context.Context, teamName string, lastN int) (*TeamForm, error)
	PlayerStats(ctx context.Context, playerName, season string) (*PlayerStats, error)
	MatchPredictions(ctx context.Context, homeTeam, awayTeam string) (*MatchPredictions, error)
	LiveMatchData(ctx context.Context, matchID string) (*LiveMatchData, error)
	BettingTips(ctx context.Context, league string, risk types.RiskTolerance) (*BettingTips, error)
}

// OddsData is a bookmaker odds sheet for one match
type OddsData struct {
	MatchID        string             `json:"match_id"`
	Bookmaker      string             `json:"bookmaker"`
	Odds           MatchOdds          `json:"odds"`
	OverUnder      OverUnderOdds      `json:"over_under"`
	BothTeamsScore BothTeamsScoreOdds `json:"both_teams_score"`
	Timestamp      time.Time          `json:"timestamp"`
	Status         string             `json:"status"`
}

type MatchOdds struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

type OverUnderOdds struct {
	Over25  float64 `json:"over_2_5"`
	Under25 float64 `json:"under_2_5"`
}

type BothTeamsScoreOdds struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// TeamForm summarizes a team's recent results
type TeamForm struct {
	TeamName        string    `json:"team_name"`
	RecentForm      string    `json:"recent_form"`
	MatchesAnalyzed int       `json:"matches_analyzed"`
	Stats           FormStats `json:"stats"`
	FormRating      float64   `json:"form_rating"`
	Timestamp       time.Time `json:"timestamp"`
}

type FormStats struct {
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`
	GoalsScored   int `json:"goals_scored"`
	GoalsConceded int `json:"goals_conceded"`
	CleanSheets   int `json:"clean_sheets"`
}

// PlayerStats is a player's season record
type PlayerStats struct {
	PlayerName   string            `json:"player_name"`
	Season       string            `json:"season"`
	Position     string            `json:"position"`
	Stats        PlayerSeasonStats `json:"stats"`
	InjuryStatus string            `json:"injury_status"`
	MarketValue  string            `json:"market_value"`
	Timestamp    time.Time         `json:"timestamp"`
}

type PlayerSeasonStats struct {
	Appearances   int `json:"appearances"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	MinutesPlayed int `json:"minutes_played"`
}

// MatchPredictions is a model-backed outcome forecast for one fixture
type MatchPredictions struct {
	HomeTeam    string           `json:"home_team"`
	AwayTeam    string           `json:"away_team"`
	Predictions PredictionDetail `json:"predictions"`
	Confidence  float64          `json:"confidence"`
	KeyFactors  []string         `json:"key_factors"`
	Timestamp   time.Time        `json:"timestamp"`
}

type PredictionDetail struct {
	MostLikelyResult string              `json:"most_likely_result"`
	Probabilities    ResultProbabilities `json:"probabilities"`
	PredictedScore   string              `json:"predicted_score"`
	TotalGoals       OverUnderOdds       `json:"total_goals"`
}

type ResultProbabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// LiveMatchData is the in-play state of a match
type LiveMatchData struct {
	MatchID    string          `json:"match_id"`
	Status     string          `json:"status"`
	Minute     int             `json:"minute"`
	Score      MatchScore      `json:"score"`
	Events     []MatchEvent    `json:"events"`
	Statistics MatchStatistics `json:"statistics"`
	Timestamp  time.Time       `json:"timestamp"`
}

type MatchScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type MatchEvent struct {
	Minute int    `json:"minute"`
	Type   string `json:"type"`
	Player string `json:"player"`
	Team   string `json:"team"`
}

type MatchStatistics struct {
	Possession    HomeAway `json:"possession"`
	Shots         HomeAway `json:"shots"`
	ShotsOnTarget HomeAway `json:"shots_on_target"`
}

type HomeAway struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// BettingTips is a set of league tips tuned to a risk level
type BettingTips struct {
	League     string              `json:"league"`
	RiskLevel  types.RiskTolerance `json:"risk_level"`
	Tips       []BettingTip        `json:"tips"`
	Disclaimer string              `json:"disclaimer"`
	Timestamp  time.Time           `json:"timestamp"`
}

type BettingTip struct {
	Type       string  `json:"type"`
	Match      string  `json:"match"`
	Bet        string  `json:"bet"`
	Odds       float64 `json:"odds"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}
