package model

import (
	"slices"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// preferenceFieldCount is the number of distinct signal types the extractor
// looks for; confidence is the populated count divided by this.
const preferenceFieldCount = 5

// ExtractedPreferences is the per-message extraction result. It is an update
// delta for the stored profile, never persisted directly.
type ExtractedPreferences struct {
	Teams         []string
	Leagues       []string
	RiskTolerance types.RiskTolerance
	BettingStyle  types.BettingStyle
	BetTypes      []types.BetType
	Confidence    float64
}

// IsEmpty reports whether nothing was extracted
func (p ExtractedPreferences) IsEmpty() bool {
	return len(p.Teams) == 0 && len(p.Leagues) == 0 &&
		p.RiskTolerance == "" && p.BettingStyle == "" && len(p.BetTypes) == 0
}

// CalcConfidence computes the confidence as the number of populated signal
// types over the total, clamped to [0, 1].
func (p ExtractedPreferences) CalcConfidence() float64 {
	var score float64
	if len(p.Teams) > 0 {
		score++
	}
	if len(p.Leagues) > 0 {
		score++
	}
	if p.RiskTolerance != "" {
		score++
	}
	if p.BettingStyle != "" {
		score++
	}
	if len(p.BetTypes) > 0 {
		score++
	}
	return min(score/preferenceFieldCount, 1.0)
}

// UserProfile holds a user's betting preferences. List-valued fields are
// sets: merging applies union, never overwrite.
type UserProfile struct {
	UserID           types.UserID        `json:"user_id"`
	FavoriteTeams    []string            `json:"favorite_teams"`
	FavoriteLeagues  []string            `json:"favorite_leagues"`
	BettingStyle     types.BettingStyle  `json:"betting_style,omitempty"`
	RiskTolerance    types.RiskTolerance `json:"risk_tolerance,omitempty"`
	PreferredMarkets []string            `json:"preferred_markets"`
	FavoriteBetTypes []types.BetType     `json:"favorite_bet_types"`
	BlacklistedTeams []string            `json:"blacklisted_teams"`
	MaxStakePerBet   float64             `json:"max_stake_per_bet,omitempty"`
	BankrollSize     float64             `json:"bankroll_size,omitempty"`
	Language         string              `json:"language,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// NewUserProfile returns an empty profile for the given user
func NewUserProfile(userID types.UserID) *UserProfile {
	return &UserProfile{UserID: userID}
}

// Clone returns a deep copy of the profile
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	copied := *p
	copied.FavoriteTeams = slices.Clone(p.FavoriteTeams)
	copied.FavoriteLeagues = slices.Clone(p.FavoriteLeagues)
	copied.PreferredMarkets = slices.Clone(p.PreferredMarkets)
	copied.FavoriteBetTypes = slices.Clone(p.FavoriteBetTypes)
	copied.BlacklistedTeams = slices.Clone(p.BlacklistedTeams)
	return &copied
}

// Merge applies an extracted delta to the profile using set-union semantics
// for list fields. Scalar fields are only set when the delta carries a value.
// Applying the same delta twice leaves the profile unchanged.
func (p *UserProfile) Merge(delta ExtractedPreferences) {
	p.FavoriteTeams = unionStrings(p.FavoriteTeams, delta.Teams)
	p.FavoriteLeagues = unionStrings(p.FavoriteLeagues, delta.Leagues)
	if delta.RiskTolerance != "" {
		p.RiskTolerance = delta.RiskTolerance
	}
	if delta.BettingStyle != "" {
		p.BettingStyle = delta.BettingStyle
	}
	p.FavoriteBetTypes = unionBetTypes(p.FavoriteBetTypes, delta.BetTypes)
}

// unionStrings merges two string sets, preserving sorted order so the result
// is deterministic regardless of application order.
func unionStrings(existing, added []string) []string {
	if len(added) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(added))
	merged := make([]string, 0, len(existing)+len(added))
	for _, v := range existing {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	for _, v := range added {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	slices.Sort(merged)
	return merged
}

func unionBetTypes(existing, added []types.BetType) []types.BetType {
	if len(added) == 0 {
		return existing
	}
	seen := make(map[types.BetType]struct{}, len(existing)+len(added))
	merged := make([]types.BetType, 0, len(existing)+len(added))
	for _, v := range existing {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	for _, v := range added {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	slices.Sort(merged)
	return merged
}

// BettingPreferences carries the market-level preference fields updated
// separately from the favorite teams/leagues profile.
type BettingPreferences struct {
	PreferredMarkets []string            `json:"preferred_markets,omitempty"`
	FavoriteBetTypes []types.BetType     `json:"favorite_bet_types,omitempty"`
	BlacklistedTeams []string            `json:"blacklisted_teams,omitempty"`
	RiskTolerance    types.RiskTolerance `json:"risk_tolerance,omitempty"`
	MaxStakePerBet   float64             `json:"max_stake_per_bet,omitempty"`
	BankrollSize     float64             `json:"bankroll_size,omitempty"`
}

// ApplyBetting merges betting preferences into the profile with the same
// union semantics as Merge.
func (p *UserProfile) ApplyBetting(prefs BettingPreferences) {
	p.PreferredMarkets = unionStrings(p.PreferredMarkets, prefs.PreferredMarkets)
	p.FavoriteBetTypes = unionBetTypes(p.FavoriteBetTypes, prefs.FavoriteBetTypes)
	p.BlacklistedTeams = unionStrings(p.BlacklistedTeams, prefs.BlacklistedTeams)
	if prefs.RiskTolerance != "" {
		p.RiskTolerance = prefs.RiskTolerance
	}
	if prefs.MaxStakePerBet > 0 {
		p.MaxStakePerBet = prefs.MaxStakePerBet
	}
	if prefs.BankrollSize > 0 {
		p.BankrollSize = prefs.BankrollSize
	}
}
