package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/extract"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/utils/async"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultToolTimeout bounds a single provider call
	DefaultToolTimeout = 10 * time.Second

	defaultFormWindow = 5
	analysisSource    = "tool_analysis"
)

// Executor routes a query to the matching provider tools and runs them in
// parallel. Tool failures are isolated: a failed call becomes a
// ToolResult{Success: false} and never blocks the other calls.
type Executor struct {
	provider  Provider
	extractor *extract.Extractor
	index     *rag.Index
	timeout   time.Duration
}

type Option func(*Executor)

// WithTimeout overrides the per-tool call timeout
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithIndex enables recording a betting-analysis note into the user's
// personal namespace after a successful tool run.
func WithIndex(index *rag.Index) Option {
	return func(e *Executor) {
		e.index = index
	}
}

func New(provider Provider, extractor *extract.Extractor, opts ...Option) *Executor {
	e := &Executor{
		provider:  provider,
		extractor: extractor,
		timeout:   DefaultToolTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NeedsTools reports whether the query warrants any external tool call
func (e *Executor) NeedsTools(query string) bool {
	return NeedsTools(query)
}

// invocation is one planned tool call with its arguments already resolved
type invocation struct {
	tool string
	call func(ctx context.Context) (any, error)
}

// Execute runs every tool matched by the query. Arguments are resolved from
// the query text with the profile's favorites as fallback; a tool whose
// arguments cannot be resolved is skipped rather than called with a guess.
func (e *Executor) Execute(ctx context.Context, userID types.UserID, query string, profile *model.UserProfile) []model.ToolResult {
	capabilities := MatchCapabilities(query)
	if len(capabilities) == 0 {
		return nil
	}

	invocations := e.plan(ctx, query, profile, capabilities)
	if len(invocations) == 0 {
		return nil
	}

	results := make([]model.ToolResult, len(invocations))
	var eg errgroup.Group
	for i, inv := range invocations {
		eg.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			payload, err := inv.call(callCtx)
			if err != nil {
				logging.From(ctx).Warn("tool call failed", "tool", inv.tool, "error", err)
				results[i] = model.ToolResult{
					Tool:    inv.tool,
					Result:  fmt.Sprintf("tool execution failed: %v", err),
					Success: false,
				}
				return nil
			}
			results[i] = model.ToolResult{Tool: inv.tool, Result: payload, Success: true}
			return nil
		})
	}
	_ = eg.Wait()

	e.recordAnalysis(ctx, userID, query, results)
	return results
}

func (e *Executor) plan(ctx context.Context, query string, profile *model.UserProfile, capabilities []Capability) []invocation {
	logger := logging.From(ctx)

	var invocations []invocation
	for _, capability := range capabilities {
		switch capability {
		case CapabilityOdds, CapabilityLive, CapabilityPrediction:
			teams := resolveTeams(e.extractor, query, profile)
			if len(teams) < 2 {
				logger.Debug("skipping tool, fixture unresolved",
					"capability", capability, "teams", teams)
				continue
			}
			home, away := teams[0], teams[1]

			switch capability {
			case CapabilityOdds:
				id := matchID(home, away)
				invocations = append(invocations, invocation{
					tool: "get_live_odds",
					call: func(ctx context.Context) (any, error) {
						return e.provider.LiveOdds(ctx, id, "all")
					},
				})
			case CapabilityLive:
				id := matchID(home, away)
				invocations = append(invocations, invocation{
					tool: "get_live_match_data",
					call: func(ctx context.Context) (any, error) {
						return e.provider.LiveMatchData(ctx, id)
					},
				})
			case CapabilityPrediction:
				invocations = append(invocations, invocation{
					tool: "get_match_predictions",
					call: func(ctx context.Context) (any, error) {
						return e.provider.MatchPredictions(ctx, home, away)
					},
				})
			}

		case CapabilityForm:
			teams := resolveTeams(e.extractor, query, profile)
			if len(teams) == 0 {
				logger.Debug("skipping tool, team unresolved", "capability", capability)
				continue
			}
			team := teams[0]
			invocations = append(invocations, invocation{
				tool: "get_team_form",
				call: func(ctx context.Context) (any, error) {
					return e.provider.TeamForm(ctx, team, defaultFormWindow)
				},
			})

		case CapabilityStats:
			player := resolvePlayer(query)
			if player == "" {
				logger.Debug("skipping tool, player unresolved", "capability", capability)
				continue
			}
			season := strconv.Itoa(time.Now().Year())
			invocations = append(invocations, invocation{
				tool: "get_player_stats",
				call: func(ctx context.Context) (any, error) {
					return e.provider.PlayerStats(ctx, player, season)
				},
			})

		case CapabilityTips:
			league := resolveLeague(e.extractor, query, profile)
			if league == "" {
				logger.Debug("skipping tool, league unresolved", "capability", capability)
				continue
			}
			risk := types.RiskMedium
			if profile != nil && profile.RiskTolerance != "" {
				risk = profile.RiskTolerance
			}
			invocations = append(invocations, invocation{
				tool: "get_betting_tips",
				call: func(ctx context.Context) (any, error) {
					return e.provider.BettingTips(ctx, league, risk)
				},
			})
		}
	}
	return invocations
}

// recordAnalysis stores a short note about the tool run in the user's
// personal retrieval namespace so later turns can recall it.
func (e *Executor) recordAnalysis(ctx context.Context, userID types.UserID, query string, results []model.ToolResult) {
	if e.index == nil || userID == "" {
		return
	}

	var used []string
	for _, r := range results {
		if r.Success {
			used = append(used, r.Tool)
		}
	}
	if len(used) == 0 {
		return
	}

	// Embedding the note costs an LLM round trip, so it runs off the
	// request path. The next turn picks it up from the personal namespace.
	content := fmt.Sprintf("User query: %s\nTools used: %s", query, strings.Join(used, ", "))
	async.Dispatch(ctx, func(ctx context.Context) error {
		return e.index.AddText(ctx, types.NamespaceForUser(userID), "bet analysis", content,
			types.CategoryBetting, analysisSource)
	})
}
