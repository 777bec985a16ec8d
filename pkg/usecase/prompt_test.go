package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
)

func TestSystemPromptAssembly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t, &mockLLMClient{})

	t.Run("blocks appear in fixed order", func(t *testing.T) {
		state := &model.ConversationState{
			Profile: &model.UserProfile{
				UserID:        "user-1",
				FavoriteTeams: []string{"Arsenal"},
				RiskTolerance: types.RiskLow,
			},
			RetrievedContext: []model.ScoredPassage{
				{Content: "Arsenal are strong at home", Source: "arsenal-profile", Score: 0.9},
			},
			ToolResults: []model.ToolResult{
				{Tool: "get_team_form", Result: map[string]any{"team_name": "Arsenal"}, Success: true},
				{Tool: "get_live_odds", Result: "bookmaker API down", Success: false},
			},
			Metadata: map[string]any{},
		}

		prompt, err := uc.BuildSystemPrompt(ctx, state)
		gt.NoError(t, err).Required()

		base := strings.Index(prompt, "expert football betting assistant")
		userCtx := strings.Index(prompt, "USER CONTEXT:")
		relevant := strings.Index(prompt, "RELEVANT CONTEXT:")
		realtime := strings.Index(prompt, "REAL-TIME DATA:")
		directives := strings.Index(prompt, "PERSONALIZATION INSTRUCTIONS:")

		gt.Bool(t, base >= 0).True()
		gt.Bool(t, base < userCtx).True()
		gt.Bool(t, userCtx < relevant).True()
		gt.Bool(t, relevant < realtime).True()
		gt.Bool(t, realtime < directives).True()

		gt.Bool(t, strings.Contains(prompt, "- Favorite teams: Arsenal")).True()
		gt.Bool(t, strings.Contains(prompt, "- Risk tolerance: low")).True()
		gt.Bool(t, strings.Contains(prompt, "[Context 1] arsenal-profile:")).True()
		gt.Bool(t, strings.Contains(prompt, "[Tool 1] get_team_form:")).True()

		// Failed tools never reach the prompt
		gt.Bool(t, strings.Contains(prompt, "get_live_odds")).False()
	})

	t.Run("empty state renders no optional blocks", func(t *testing.T) {
		state := &model.ConversationState{Metadata: map[string]any{}}

		prompt, err := uc.BuildSystemPrompt(ctx, state)
		gt.NoError(t, err).Required()

		gt.Bool(t, strings.Contains(prompt, "USER CONTEXT:")).False()
		gt.Bool(t, strings.Contains(prompt, "RELEVANT CONTEXT:")).False()
		gt.Bool(t, strings.Contains(prompt, "REAL-TIME DATA:")).False()
		gt.Bool(t, strings.Contains(prompt, "PERSONALIZATION INSTRUCTIONS:")).True()
	})
}

func TestUserContextBlock(t *testing.T) {
	t.Parallel()

	t.Run("default language is omitted", func(t *testing.T) {
		block := usecase.UserContextBlock(&model.UserProfile{UserID: "u", Language: "en"})
		gt.Value(t, block).Equal("")
	})

	t.Run("non-default language is included", func(t *testing.T) {
		block := usecase.UserContextBlock(&model.UserProfile{UserID: "u", Language: "es"})
		gt.Value(t, block).Equal("- Preferred language: es")
	})

	t.Run("nil profile yields empty block", func(t *testing.T) {
		gt.Value(t, usecase.UserContextBlock(nil)).Equal("")
	})
}

func TestRenderTurns(t *testing.T) {
	t.Parallel()

	rendered := usecase.RenderTurns([]model.Turn{
		{Role: types.SenderUser, Content: "hello"},
		{Role: types.SenderBot, Content: "hi, how can I help?"},
		{Role: types.SenderUser, Content: "odds for the derby?"},
	})

	gt.Value(t, rendered).Equal("User: hello\nAssistant: hi, how can I help?\nUser: odds for the derby?\nAssistant:")
}
