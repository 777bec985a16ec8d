package tools

import (
	"regexp"
	"strings"
)

// Capability names a class of external data the provider can fetch
type Capability string

const (
	CapabilityOdds       Capability = "odds"
	CapabilityLive       Capability = "live"
	CapabilityForm       Capability = "form"
	CapabilityStats      Capability = "stats"
	CapabilityPrediction Capability = "prediction"
	CapabilityTips       Capability = "tips"
)

type capabilityRule struct {
	Capability Capability
	Keywords   []string
}

// capabilityRules maps query wording to tool capabilities. A query can match
// several capabilities; each fires its own tool. Keywords match on word
// boundaries, so "liverpool" never triggers the live-data capability.
var capabilityRules = []capabilityRule{
	{CapabilityOdds, []string{"odds", "betting odds", "bookmaker", "bet365", "william hill"}},
	{CapabilityLive, []string{"live", "current", "now", "happening", "real-time"}},
	{CapabilityForm, []string{"form", "recent", "last matches", "performance"}},
	{CapabilityStats, []string{"stats", "statistics", "goals", "assists", "cards"}},
	{CapabilityPrediction, []string{"predict", "forecast", "who will win", "outcome"}},
	{CapabilityTips, []string{"tips", "advice", "recommend", "should i bet"}},
}

var capabilityPatterns = compileCapabilityPatterns()

func compileCapabilityPatterns() map[Capability][]*regexp.Regexp {
	patterns := make(map[Capability][]*regexp.Regexp, len(capabilityRules))
	for _, rule := range capabilityRules {
		for _, keyword := range rule.Keywords {
			patterns[rule.Capability] = append(patterns[rule.Capability],
				regexp.MustCompile(`\b`+regexp.QuoteMeta(keyword)+`\b`))
		}
	}
	return patterns
}

// MatchCapabilities returns the capabilities whose keywords appear in the
// query, in rule order.
func MatchCapabilities(query string) []Capability {
	lower := strings.ToLower(query)

	var matched []Capability
	for _, rule := range capabilityRules {
		for _, pattern := range capabilityPatterns[rule.Capability] {
			if pattern.MatchString(lower) {
				matched = append(matched, rule.Capability)
				break
			}
		}
	}
	return matched
}

// NeedsTools reports whether the query warrants any external tool call
func NeedsTools(query string) bool {
	return len(MatchCapabilities(query)) > 0
}
