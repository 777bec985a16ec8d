package knowledge

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

const sampleSource = "sample_data"

type sampleDoc struct {
	Title    string
	Category types.Category
	Content  string
}

// sampleDocs is the starter corpus used by the seed command so a fresh
// deployment can answer questions before any manual ingestion.
var sampleDocs = []sampleDoc{
	{
		Title:    "Liverpool FC Profile",
		Category: types.CategoryTeams,
		Content: `Liverpool Football Club is an English professional football club based in Liverpool.
Founded in 1892, Liverpool has won 19 league titles, 8 FA Cups, 9 League Cups, 15 FA Community Shields,
6 European Cups/Champions League titles, 3 UEFA Cups/Europa League titles, 4 UEFA Super Cups, and 1 FIFA Club World Cup.

Recent Performance:
- Premier League Champions 2019-20
- Champions League Winners 2018-19
- Key Players: Mohamed Salah, Virgil van Dijk, Sadio Mane
- Manager: Juergen Klopp (known for high-intensity pressing style)
- Home Stadium: Anfield (capacity: 53,394)

Playing Style: Known for gegenpressing, fast transitions, and attacking full-backs.
Strengths: Strong mentality, excellent in big games, solid defense with van Dijk.
Weaknesses: Can struggle against deep defensive blocks, injury-prone squad depth.`,
	},
	{
		Title:    "Manchester City Profile",
		Category: types.CategoryTeams,
		Content: `Manchester City is an English football club based in Manchester.
Under Pep Guardiola, City has become one of the most dominant teams in world football.

Recent Performance:
- Premier League Champions 2020-21, 2021-22, 2022-23
- Champions League Winners 2022-23
- Key Players: Kevin De Bruyne, Erling Haaland, Rodri
- Manager: Pep Guardiola (possession-based philosophy)
- Home Stadium: Etihad Stadium (capacity: 55,017)

Playing Style: Possession-based football, positional play, high defensive line.
Strengths: Technical quality, squad depth, tactical flexibility.
Weaknesses: Can be vulnerable to counter-attacks, high defensive line exposed.`,
	},
	{
		Title:    "Value Betting Strategy",
		Category: types.CategoryBetting,
		Content: `Value betting is the practice of betting when the probability of an outcome is greater
than the probability implied by the bookmaker's odds.

Key Principles:
1. Calculate true probability of outcomes
2. Compare with bookmaker's implied probability
3. Bet when you find positive expected value
4. Use proper bankroll management

Example: If you calculate Liverpool has 60% chance to win, but odds imply 50% (2.00 odds),
this represents value.

Risk Management:
- Never bet more than 2-5% of bankroll on single bet
- Track all bets and results
- Focus on long-term profitability
- Avoid emotional betting`,
	},
	{
		Title:    "Team Form Analysis",
		Category: types.CategoryBetting,
		Content: `Analyzing team form is crucial for successful football betting.

Key Metrics to Track:
1. Recent Results (last 5-10 games)
2. Goals scored and conceded
3. Home vs Away performance
4. Head-to-head records
5. Injury list and suspensions
6. Player morale and manager pressure

Advanced Metrics:
- Expected Goals (xG) vs actual goals
- Shot conversion rates
- Defensive actions per game
- Possession statistics

Red Flags:
- Multiple key player injuries
- Recent manager changes
- Poor away form for traveling team
- Midweek European fixtures causing fatigue`,
	},
	{
		Title:    "Liverpool vs Manchester City Head-to-Head",
		Category: types.CategoryMatches,
		Content: `Historical analysis of Liverpool vs Manchester City fixtures.

Recent Meetings (Last 10):
- Liverpool wins: 4
- Manchester City wins: 4
- Draws: 2
- Average goals per game: 2.8

Key Trends:
- High-scoring fixtures (Over 2.5 goals in 70% of meetings)
- Both teams to score in 80% of recent meetings
- City stronger at Etihad, Liverpool stronger at Anfield
- Tactical battle between Klopp's pressing and Guardiola's possession

Betting Insights:
- Over 2.5 goals is often good value
- Both teams to score is reliable
- Home advantage is significant in this fixture
- Early goals often lead to open, attacking games`,
	},
}

// Seed writes the sample corpus into the store and returns the created
// documents so the caller can index them.
func (s *Store) Seed(ctx context.Context) ([]*model.KnowledgeDocument, error) {
	docs := make([]*model.KnowledgeDocument, 0, len(sampleDocs))
	for _, sample := range sampleDocs {
		doc, err := s.Add(ctx, sample.Title, sample.Content, sample.Category, sampleSource, nil)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
