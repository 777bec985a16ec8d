package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// RiskTolerance represents how much betting risk a user is comfortable with.
// The empty value means the tolerance is unknown.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Validate checks if the RiskTolerance is a known level. Empty is valid (unset).
func (r RiskTolerance) Validate() error {
	switch r {
	case "", RiskLow, RiskMedium, RiskHigh:
		return nil
	}
	return goerr.New("invalid risk tolerance", goerr.V("risk_tolerance", string(r)))
}

// String returns the string representation of RiskTolerance
func (r RiskTolerance) String() string {
	return string(r)
}

// BettingStyle represents the user's preferred way of placing bets.
// The empty value means the style is unknown.
type BettingStyle string

const (
	StyleAccumulator BettingStyle = "accumulator"
	StyleSingle      BettingStyle = "single"
	StyleSystem      BettingStyle = "system"
	StyleLive        BettingStyle = "live"
	StyleValue       BettingStyle = "value"
)

// Validate checks if the BettingStyle is a known style. Empty is valid (unset).
func (b BettingStyle) Validate() error {
	switch b {
	case "", StyleAccumulator, StyleSingle, StyleSystem, StyleLive, StyleValue:
		return nil
	}
	return goerr.New("invalid betting style", goerr.V("betting_style", string(b)))
}

// String returns the string representation of BettingStyle
func (b BettingStyle) String() string {
	return string(b)
}

// BetType represents a market the user likes to bet on
type BetType string

const (
	BetMatchResult     BetType = "match_result"
	BetOverUnder       BetType = "over_under"
	BetBothTeamsScore  BetType = "both_teams_score"
	BetHandicap        BetType = "handicap"
	BetCorrectScore    BetType = "correct_score"
	BetFirstGoalscorer BetType = "first_goalscorer"
	BetCards           BetType = "cards"
	BetCorners         BetType = "corners"
)

// String returns the string representation of BetType
func (b BetType) String() string {
	return string(b)
}
