package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

// StubProvider serves plausible synthetic data in place of real sportsbook
// and football data APIs. It exists so the whole pipeline can run end to end
// without upstream credentials; swap in a real Provider for production.
type StubProvider struct{}

var _ Provider = &StubProvider{}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) LiveOdds(ctx context.Context, matchID, bookmaker string) (*OddsData, error) {
	if bookmaker == "" {
		bookmaker = "all"
	}
	return &OddsData{
		MatchID:   matchID,
		Bookmaker: bookmaker,
		Odds: MatchOdds{
			HomeWin: uniform(1.5, 4.0),
			Draw:    uniform(3.0, 4.5),
			AwayWin: uniform(1.8, 5.0),
		},
		OverUnder: OverUnderOdds{
			Over25:  uniform(1.4, 2.2),
			Under25: uniform(1.6, 2.8),
		},
		BothTeamsScore: BothTeamsScoreOdds{
			Yes: uniform(1.6, 2.4),
			No:  uniform(1.5, 2.2),
		},
		Timestamp: time.Now(),
		Status:    "live",
	}, nil
}

func (p *StubProvider) TeamForm(ctx context.Context, teamName string, lastN int) (*TeamForm, error) {
	if lastN <= 0 || lastN > 5 {
		lastN = 5
	}
	results := []byte{'W', 'L', 'D', 'W', 'L'}[:lastN]
	rand.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})

	stats := FormStats{
		GoalsScored:   3 + rand.IntN(13),
		GoalsConceded: 2 + rand.IntN(11),
		CleanSheets:   rand.IntN(4),
	}
	for _, r := range results {
		switch r {
		case 'W':
			stats.Wins++
		case 'D':
			stats.Draws++
		case 'L':
			stats.Losses++
		}
	}

	return &TeamForm{
		TeamName:        teamName,
		RecentForm:      string(results),
		MatchesAnalyzed: lastN,
		Stats:           stats,
		FormRating:      uniform(1.0, 10.0),
		Timestamp:       time.Now(),
	}, nil
}

func (p *StubProvider) PlayerStats(ctx context.Context, playerName, season string) (*PlayerStats, error) {
	positions := []string{"Forward", "Midfielder", "Defender", "Goalkeeper"}
	injuries := []string{"fit", "minor_knock", "injured"}
	return &PlayerStats{
		PlayerName: playerName,
		Season:     season,
		Position:   positions[rand.IntN(len(positions))],
		Stats: PlayerSeasonStats{
			Appearances:   15 + rand.IntN(21),
			Goals:         rand.IntN(26),
			Assists:       rand.IntN(16),
			YellowCards:   rand.IntN(9),
			RedCards:      rand.IntN(3),
			MinutesPlayed: 1200 + rand.IntN(1801),
		},
		InjuryStatus: injuries[rand.IntN(len(injuries))],
		MarketValue:  fmt.Sprintf("€%dM", 5+rand.IntN(96)),
		Timestamp:    time.Now(),
	}, nil
}

func (p *StubProvider) MatchPredictions(ctx context.Context, homeTeam, awayTeam string) (*MatchPredictions, error) {
	homeWin := uniform(0.2, 0.6)
	draw := uniform(0.2, 0.4)
	awayWin := round2(1.0 - homeWin - draw)
	results := []string{"home_win", "draw", "away_win"}

	return &MatchPredictions{
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Predictions: PredictionDetail{
			MostLikelyResult: results[rand.IntN(len(results))],
			Probabilities: ResultProbabilities{
				HomeWin: homeWin,
				Draw:    draw,
				AwayWin: awayWin,
			},
			PredictedScore: fmt.Sprintf("%d-%d", rand.IntN(5), rand.IntN(4)),
			TotalGoals: OverUnderOdds{
				Over25:  uniform(0.4, 0.8),
				Under25: uniform(0.2, 0.6),
			},
		},
		Confidence: uniform(0.6, 0.95),
		KeyFactors: []string{
			"Recent head-to-head record",
			"Current form analysis",
			"Home advantage factor",
			"Injury reports",
		},
		Timestamp: time.Now(),
	}, nil
}

func (p *StubProvider) LiveMatchData(ctx context.Context, matchID string) (*LiveMatchData, error) {
	minute := 1 + rand.IntN(90)
	statuses := []string{"in_progress", "half_time", "finished"}
	return &LiveMatchData{
		MatchID: matchID,
		Status:  statuses[rand.IntN(len(statuses))],
		Minute:  minute,
		Score: MatchScore{
			Home: rand.IntN(5),
			Away: rand.IntN(4),
		},
		Events: []MatchEvent{
			{
				Minute: 1 + rand.IntN(minute),
				Type:   "goal",
				Player: "Sample Player",
				Team:   "home",
			},
		},
		Statistics: MatchStatistics{
			Possession:    HomeAway{Home: 40 + rand.IntN(31), Away: 30 + rand.IntN(31)},
			Shots:         HomeAway{Home: 3 + rand.IntN(13), Away: 2 + rand.IntN(11)},
			ShotsOnTarget: HomeAway{Home: 1 + rand.IntN(8), Away: 1 + rand.IntN(6)},
		},
		Timestamp: time.Now(),
	}, nil
}

func (p *StubProvider) BettingTips(ctx context.Context, league string, risk types.RiskTolerance) (*BettingTips, error) {
	tipTypes := []string{"value_bet", "safe_bet"}
	if risk == types.RiskHigh {
		tipTypes = append(tipTypes, "accumulator")
	}
	bets := []string{"Over 2.5 goals", "Both teams to score", "Home win"}

	return &BettingTips{
		League:    league,
		RiskLevel: risk,
		Tips: []BettingTip{
			{
				Type:       tipTypes[rand.IntN(len(tipTypes))],
				Match:      "Team A vs Team B",
				Bet:        bets[rand.IntN(len(bets))],
				Odds:       uniform(1.5, 3.5),
				Confidence: uniform(0.6, 0.9),
				Reasoning:  "Strong recent form and head-to-head record",
			},
		},
		Disclaimer: "Betting involves risk. Never bet more than you can afford to lose.",
		Timestamp:  time.Now(),
	}, nil
}

func uniform(lo, hi float64) float64 {
	return round2(lo + rand.Float64()*(hi-lo))
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
