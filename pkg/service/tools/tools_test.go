package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/extract"
	"github.com/pitchside-lab/pitchside/pkg/service/tools"
)

// mockProvider lets each call be overridden; unset calls fall through to the
// stub so plans with several tools still succeed.
type mockProvider struct {
	tools.StubProvider

	liveOddsFn func(ctx context.Context, matchID, bookmaker string) (*tools.OddsData, error)
	teamFormFn func(ctx context.Context, teamName string, lastN int) (*tools.TeamForm, error)
}

func (m *mockProvider) LiveOdds(ctx context.Context, matchID, bookmaker string) (*tools.OddsData, error) {
	if m.liveOddsFn != nil {
		return m.liveOddsFn(ctx, matchID, bookmaker)
	}
	return m.StubProvider.LiveOdds(ctx, matchID, bookmaker)
}

func (m *mockProvider) TeamForm(ctx context.Context, teamName string, lastN int) (*tools.TeamForm, error) {
	if m.teamFormFn != nil {
		return m.teamFormFn(ctx, teamName, lastN)
	}
	return m.StubProvider.TeamForm(ctx, teamName, lastN)
}

func toolNames(results []model.ToolResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Tool)
	}
	return names
}

func TestNeedsTools(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		query string
		needs bool
	}{
		"odds query":       {"What are the odds for the derby?", true},
		"live query":       {"what is happening in the game", true},
		"form query":       {"How is Arsenal's recent form?", true},
		"tips query":       {"should i bet on the over?", true},
		"prediction query": {"Who will win on Saturday?", true},
		"background query": {"Tell me about the history of the club", false},
		"style only":       {"I prefer accumulators", false},
		"case insensitive": {"PREDICT the outcome please", true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			gt.Value(t, tools.NeedsTools(tc.query)).Equal(tc.needs)
		})
	}
}

func TestMatchCapabilities(t *testing.T) {
	t.Parallel()

	t.Run("one query can match several capabilities", func(t *testing.T) {
		matched := tools.MatchCapabilities("live odds and form for Liverpool, any tips?")
		gt.Array(t, matched).
			Has(tools.CapabilityOdds).
			Has(tools.CapabilityLive).
			Has(tools.CapabilityForm).
			Has(tools.CapabilityTips)
		gt.Array(t, matched).Length(4)
	})

	t.Run("keyword inside a team name does not match", func(t *testing.T) {
		gt.Array(t, tools.MatchCapabilities("liverpool team news")).Length(0)
		gt.Value(t, tools.NeedsTools("tell me about liverpool")).Equal(false)
	})
}

func TestExecutorExecute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	extractor := extract.New()

	t.Run("fires matched tools with resolved entities", func(t *testing.T) {
		var gotMatchID, gotTeam string
		provider := &mockProvider{
			liveOddsFn: func(ctx context.Context, matchID, bookmaker string) (*tools.OddsData, error) {
				gotMatchID = matchID
				return &tools.OddsData{MatchID: matchID, Bookmaker: bookmaker}, nil
			},
			teamFormFn: func(ctx context.Context, teamName string, lastN int) (*tools.TeamForm, error) {
				gotTeam = teamName
				return &tools.TeamForm{TeamName: teamName, MatchesAnalyzed: lastN}, nil
			},
		}

		e := tools.New(provider, extractor)
		results := e.Execute(ctx, "user-1", "odds and form for Arsenal vs Chelsea", nil)

		gt.Array(t, toolNames(results)).
			Has("get_live_odds").
			Has("get_team_form")
		gt.Value(t, gotMatchID).Equal("arsenal_vs_chelsea")
		gt.Value(t, gotTeam).Equal("Arsenal")
		for _, r := range results {
			gt.Bool(t, r.Success).True()
		}
	})

	t.Run("one failing tool does not block the others", func(t *testing.T) {
		provider := &mockProvider{
			liveOddsFn: func(ctx context.Context, matchID, bookmaker string) (*tools.OddsData, error) {
				return nil, errors.New("bookmaker API down")
			},
		}

		e := tools.New(provider, extractor)
		results := e.Execute(ctx, "user-1", "odds and form for Arsenal vs Chelsea", nil)
		gt.Array(t, results).Length(2)

		byTool := map[string]model.ToolResult{}
		for _, r := range results {
			byTool[r.Tool] = r
		}
		gt.Bool(t, byTool["get_live_odds"].Success).False()
		gt.Bool(t, byTool["get_team_form"].Success).True()
	})

	t.Run("profile favorites fill unresolved entities", func(t *testing.T) {
		profile := &model.UserProfile{
			UserID:          "user-1",
			FavoriteTeams:   []string{"Liverpool", "Everton"},
			FavoriteLeagues: []string{"Premier League"},
			RiskTolerance:   types.RiskHigh,
		}

		e := tools.New(tools.NewStubProvider(), extractor)
		results := e.Execute(ctx, "user-1", "who will win? any betting tips?", profile)

		gt.Array(t, toolNames(results)).
			Has("get_match_predictions").
			Has("get_betting_tips")
	})

	t.Run("unresolvable entities skip the tool", func(t *testing.T) {
		e := tools.New(tools.NewStubProvider(), extractor)

		// No team in the query, no profile to fall back on
		results := e.Execute(ctx, "user-1", "who will win?", nil)
		gt.Array(t, results).Length(0)
	})

	t.Run("player stats resolve from known players", func(t *testing.T) {
		e := tools.New(tools.NewStubProvider(), extractor)
		results := e.Execute(ctx, "user-1", "show me Salah's goals and assists stats", nil)

		gt.Array(t, toolNames(results)).Has("get_player_stats")
		for _, r := range results {
			if r.Tool == "get_player_stats" {
				stats := gt.Cast[*tools.PlayerStats](t, r.Result)
				gt.Value(t, stats.PlayerName).Equal("Mohamed Salah")
			}
		}
	})

	t.Run("no capabilities yields no results", func(t *testing.T) {
		e := tools.New(tools.NewStubProvider(), extractor)
		results := e.Execute(ctx, "user-1", "tell me about the offside rule", nil)
		gt.Array(t, results).Length(0)
	})
}
