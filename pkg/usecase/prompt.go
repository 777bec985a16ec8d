package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// fallbackResponse is what the user sees when generation itself fails
const fallbackResponse = `I apologize, but I'm having difficulty processing your request right now. This might be due to:

- Temporary technical issues
- Incomplete data for your specific query
- Need for more context about your question

Could you please:
1. Rephrase your question with more details
2. Try a different type of analysis
3. Ask about general betting principles instead

I'm here to help with football betting analysis, team insights, and strategy discussions!`

type promptPassage struct {
	Index   int
	Source  string
	Content string
}

type promptToolEntry struct {
	Index   int
	Tool    string
	Payload string
}

type promptData struct {
	UserContext string
	Passages    []promptPassage
	ToolResults []promptToolEntry
}

// personalizePrompt renders the system prompt in a fixed order: base
// instructions, then the user context, then the retrieved passages and
// successful tool results, then the personalization directives.
func (uc *UseCases) personalizePrompt(ctx context.Context, state *model.ConversationState) error {
	data := promptData{UserContext: userContextBlock(state.Profile)}

	for i, passage := range state.RetrievedContext {
		data.Passages = append(data.Passages, promptPassage{
			Index:   i + 1,
			Source:  passage.Source,
			Content: passage.Content,
		})
	}

	for _, result := range state.ToolResults {
		if !result.Success {
			continue
		}
		data.ToolResults = append(data.ToolResults, promptToolEntry{
			Index:   len(data.ToolResults) + 1,
			Tool:    result.Tool,
			Payload: renderToolPayload(result.Result),
		})
	}

	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, data); err != nil {
		return goerr.Wrap(err, "failed to render system prompt")
	}
	state.SystemPrompt = buf.String()
	return nil
}

// userContextBlock renders only the non-empty profile fields
func userContextBlock(profile *model.UserProfile) string {
	if profile == nil {
		return ""
	}

	var lines []string
	if len(profile.FavoriteTeams) > 0 {
		lines = append(lines, "- Favorite teams: "+strings.Join(profile.FavoriteTeams, ", "))
	}
	if len(profile.FavoriteLeagues) > 0 {
		lines = append(lines, "- Follows leagues: "+strings.Join(profile.FavoriteLeagues, ", "))
	}
	if profile.BettingStyle != "" {
		lines = append(lines, "- Betting style: "+string(profile.BettingStyle))
	}
	if profile.RiskTolerance != "" {
		lines = append(lines, "- Risk tolerance: "+string(profile.RiskTolerance))
	}
	if profile.Language != "" && profile.Language != "en" {
		lines = append(lines, "- Preferred language: "+profile.Language)
	}
	return strings.Join(lines, "\n")
}

func renderToolPayload(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
