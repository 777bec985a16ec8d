package extract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Extractor parses free-form chat text into structured preference signals.
// It is purely lexical and holds only precompiled patterns, so a single
// instance is safe for concurrent use.
type Extractor struct {
	teamPatterns map[string]*regexp.Regexp
	mentionExprs []*regexp.Regexp
	canonical    map[string]string
	leagues      []leagueAliases
	titler       cases.Caser
}

type Option func(*Extractor)

// WithTeams extends the team dictionary. Keys are surface forms as they
// appear in chat, values the canonical display name.
func WithTeams(teams map[string]string) Option {
	return func(x *Extractor) {
		for surface, canonical := range teams {
			surface = strings.ToLower(surface)
			x.teamPatterns[surface] = regexp.MustCompile(`\b` + regexp.QuoteMeta(surface) + `\b`)
			x.canonical[surface] = canonical
		}
	}
}

// WithLeagues extends the league dictionary. Keys are aliases, values the
// canonical league name.
func WithLeagues(leagues map[string]string) Option {
	return func(x *Extractor) {
		for alias, canonical := range leagues {
			x.leagues = append(x.leagues, leagueAliases{
				Canonical: strings.ToLower(canonical),
				Aliases:   []string{strings.ToLower(alias)},
			})
		}
	}
}

// mention expressions catch teams referenced as "love X" or "betting on X"
var mentionPatterns = []string{
	`\b(?:love|support|follow|fan of)\s+(\w+)`,
	`\b(?:bet on|betting on|bets for)\s+(\w+)`,
}

func New(opts ...Option) *Extractor {
	teamPatterns := make(map[string]*regexp.Regexp, len(knownTeams))
	for _, team := range knownTeams {
		teamPatterns[team] = regexp.MustCompile(`\b` + regexp.QuoteMeta(team) + `\b`)
	}

	mentionExprs := make([]*regexp.Regexp, 0, len(mentionPatterns))
	for _, p := range mentionPatterns {
		mentionExprs = append(mentionExprs, regexp.MustCompile(p))
	}

	canonical := make(map[string]string, len(teamCanonical))
	for surface, name := range teamCanonical {
		canonical[surface] = name
	}

	x := &Extractor{
		teamPatterns: teamPatterns,
		mentionExprs: mentionExprs,
		canonical:    canonical,
		leagues:      slices.Clone(knownLeagues),
		titler:       cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract pulls preference signals from a message. The optional history text
// is prepended so signals spread over earlier turns still count.
func (x *Extractor) Extract(message, history string) model.ExtractedPreferences {
	text := strings.ToLower(message)
	if history != "" {
		text = strings.ToLower(history) + " " + text
	}

	prefs := model.ExtractedPreferences{
		Teams:         x.extractTeams(text),
		Leagues:       x.extractLeagues(text),
		RiskTolerance: extractRiskTolerance(text),
		BettingStyle:  extractBettingStyle(text),
		BetTypes:      extractBetTypes(text),
	}
	prefs.Confidence = prefs.CalcConfidence()
	return prefs
}

// TeamMentions returns the canonical names of teams mentioned in the text,
// ordered by first appearance. Used for entity resolution where the order of
// mention matters, e.g. home vs away.
func (x *Extractor) TeamMentions(text string) []string {
	lower := strings.ToLower(text)

	type mention struct {
		name string
		pos  int
	}
	seen := map[string]int{}
	var mentions []mention
	for team, pattern := range x.teamPatterns {
		loc := pattern.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		canonical := x.normalizeTeam(team)
		if prev, ok := seen[canonical]; ok {
			if loc[0] < mentions[prev].pos {
				mentions[prev].pos = loc[0]
			}
			continue
		}
		seen[canonical] = len(mentions)
		mentions = append(mentions, mention{name: canonical, pos: loc[0]})
	}

	slices.SortFunc(mentions, func(a, b mention) int { return a.pos - b.pos })
	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		names = append(names, m.name)
	}
	return names
}

// Leagues returns the canonical names of leagues mentioned in the text
func (x *Extractor) Leagues(text string) []string {
	return x.extractLeagues(strings.ToLower(text))
}

func (x *Extractor) extractTeams(text string) []string {
	found := map[string]struct{}{}

	for team, pattern := range x.teamPatterns {
		if pattern.MatchString(text) {
			found[x.normalizeTeam(team)] = struct{}{}
		}
	}

	for _, expr := range x.mentionExprs {
		for _, m := range expr.FindAllStringSubmatch(text, -1) {
			candidate := strings.ToLower(m[1])
			if _, ok := x.teamPatterns[candidate]; ok {
				found[x.normalizeTeam(candidate)] = struct{}{}
			}
		}
	}

	teams := make([]string, 0, len(found))
	for team := range found {
		teams = append(teams, team)
	}
	slices.Sort(teams)
	if len(teams) == 0 {
		return nil
	}
	return teams
}

// normalizeTeam maps a matched surface form to its canonical display name
func (x *Extractor) normalizeTeam(team string) string {
	if canonical, ok := x.canonical[team]; ok {
		return canonical
	}
	return x.titler.String(team)
}

func (x *Extractor) extractLeagues(text string) []string {
	var leagues []string
	for _, league := range x.leagues {
		for _, alias := range league.Aliases {
			if strings.Contains(text, alias) {
				leagues = append(leagues, league.Canonical)
				break
			}
		}
	}
	return leagues
}

// extractRiskTolerance resolves in two tiers: explicit keyword lists first,
// then a contextual word count. An explicit hit always wins, so "safe bet but
// love the adrenaline" resolves low even though the context suggests high.
func extractRiskTolerance(text string) types.RiskTolerance {
	for _, level := range explicitRisk {
		for _, keyword := range level.Keywords {
			if strings.Contains(text, keyword) {
				return level.Level
			}
		}
	}

	var highScore, lowScore int
	for _, word := range contextualHighRisk {
		if strings.Contains(text, word) {
			highScore++
		}
	}
	for _, word := range contextualLowRisk {
		if strings.Contains(text, word) {
			lowScore++
		}
	}

	switch {
	case highScore > lowScore:
		return types.RiskHigh
	case lowScore > highScore:
		return types.RiskLow
	}
	return ""
}

func extractBettingStyle(text string) types.BettingStyle {
	for _, style := range knownStyles {
		for _, keyword := range style.Keywords {
			if strings.Contains(text, keyword) {
				return style.Style
			}
		}
	}
	return ""
}

func extractBetTypes(text string) []types.BetType {
	var betTypes []types.BetType
	for _, bt := range knownBetTypes {
		for _, keyword := range bt.Keywords {
			if strings.Contains(text, keyword) {
				betTypes = append(betTypes, bt.Type)
				break
			}
		}
	}
	return betTypes
}
