package extract

import (
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// knownTeams is the recognized team surface forms, grouped by league.
// Matching is case-insensitive with word boundaries.
var knownTeams = []string{
	// Premier League
	"arsenal", "chelsea", "liverpool", "manchester united", "manchester city",
	"tottenham", "spurs", "leicester", "west ham", "everton", "aston villa",
	"brighton", "crystal palace", "fulham", "brentford", "nottingham forest",
	"wolves", "bournemouth", "burnley", "sheffield united", "luton",

	// La Liga
	"real madrid", "barcelona", "atletico madrid", "sevilla", "valencia",
	"villarreal", "real sociedad", "athletic bilbao", "betis", "celta vigo",

	// Serie A
	"juventus", "ac milan", "inter milan", "napoli", "roma", "lazio",
	"atalanta", "fiorentina", "torino", "bologna",

	// Bundesliga
	"bayern munich", "borussia dortmund", "rb leipzig", "bayer leverkusen",
	"eintracht frankfurt", "wolfsburg", "borussia monchengladbach",

	// Ligue 1
	"paris saint-germain", "psg", "marseille", "lyon", "monaco", "lille",

	// Other popular teams
	"ajax", "benfica", "porto", "celtic", "rangers",
}

// teamCanonical maps surface forms that title-casing alone gets wrong
var teamCanonical = map[string]string{
	"psg":                 "Paris Saint-Germain",
	"paris saint-germain": "Paris Saint-Germain",
	"manchester united":   "Manchester United",
	"manchester city":     "Manchester City",
	"real madrid":         "Real Madrid",
	"atletico madrid":     "Atletico Madrid",
	"ac milan":            "AC Milan",
	"inter milan":         "Inter Milan",
	"bayern munich":       "Bayern Munich",
	"borussia dortmund":   "Borussia Dortmund",
}

type leagueAliases struct {
	Canonical string
	Aliases   []string
}

// knownLeagues maps canonical league names to their surface forms
var knownLeagues = []leagueAliases{
	{"premier league", []string{"premier league", "epl", "english premier league"}},
	{"la liga", []string{"la liga", "spanish league", "primera division"}},
	{"serie a", []string{"serie a", "italian league"}},
	{"bundesliga", []string{"bundesliga", "german league"}},
	{"ligue 1", []string{"ligue 1", "french league"}},
	{"champions league", []string{"champions league", "ucl", "european cup"}},
	{"europa league", []string{"europa league", "uel"}},
	{"world cup", []string{"world cup", "fifa world cup"}},
	{"euros", []string{"european championship", "euros", "euro 2024"}},
}

type riskKeywords struct {
	Level    types.RiskTolerance
	Keywords []string
}

// explicitRisk is the first resolution tier. A keyword hit here decides the
// level outright; the contextual word count below never overrides it.
var explicitRisk = []riskKeywords{
	{types.RiskHigh, []string{
		"high risk", "risky", "aggressive", "gamble",
		"big bet", "all in", "maximum", "extreme", "dangerous", "wild", "excitement",
		"dont mind losing", "don't mind losing", "losing money", "lose money",
		"high stakes", "big stakes", "maximum bet", "go big", "all or nothing", "fun",
	}},
	{types.RiskMedium, []string{
		"moderate", "balanced", "reasonable", "normal", "standard",
		"medium risk", "careful", "sensible", "reasonable risk",
	}},
	{types.RiskLow, []string{
		"safe", "conservative", "low risk", "secure", "minimal",
		"cautious", "play it safe", "small bet", "safe bet", "low stakes",
	}},
}

// contextualHighRisk and contextualLowRisk are the second tier: loosely
// associated words counted when no explicit keyword matched.
var contextualHighRisk = []string{
	"adrenaline", "adrenilne", "adrenline", "rush", "thrill",
	"big", "high", "maximum", "aggressive", "all in", "for fun",
	"don't care", "dont care", "lose", "losing", "risk it", "go for it",
}

var contextualLowRisk = []string{
	"careful", "safe", "small", "conservative", "secure", "cautious", "minimal",
}

type styleKeywords struct {
	Style    types.BettingStyle
	Keywords []string
}

var knownStyles = []styleKeywords{
	{types.StyleAccumulator, []string{"accumulator", "acca", "multiple", "combo", "parlay"}},
	{types.StyleSingle, []string{"single bet", "straight bet", "individual"}},
	{types.StyleSystem, []string{"system bet", "yankee", "patent", "trixie"}},
	{types.StyleLive, []string{"live betting", "in-play", "real-time", "during match"}},
	{types.StyleValue, []string{"value bet", "good odds", "value", "profitable"}},
}

type betTypeKeywords struct {
	Type     types.BetType
	Keywords []string
}

var knownBetTypes = []betTypeKeywords{
	{types.BetMatchResult, []string{"win", "1x2", "match result", "full time result"}},
	{types.BetOverUnder, []string{"over", "under", "goals", "total goals", "o/u"}},
	{types.BetBothTeamsScore, []string{"both teams score", "btts", "both to score"}},
	{types.BetHandicap, []string{"handicap", "asian handicap", "spread"}},
	{types.BetCorrectScore, []string{"correct score", "exact score"}},
	{types.BetFirstGoalscorer, []string{"first goalscorer", "anytime goalscorer"}},
	{types.BetCards, []string{"cards", "yellow cards", "red cards"}},
	{types.BetCorners, []string{"corners", "corner kicks"}},
}
