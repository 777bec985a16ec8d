package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
)

func (uc *UseCases) generateResponse(ctx context.Context, state *model.ConversationState) error {
	genCtx, cancel := context.WithTimeout(ctx, uc.generateTimeout)
	defer cancel()

	session, err := uc.llmClient.NewSession(genCtx,
		gollem.WithSessionSystemPrompt(state.SystemPrompt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create generation session")
	}

	prompt := renderTurns(state.RecentTurns(uc.historyWindow))
	resp, err := session.GenerateContent(genCtx, gollem.Text(prompt))
	if err != nil {
		return goerr.Wrap(err, "failed to generate response")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return goerr.New("generation returned no text")
	}

	state.Response = strings.Join(resp.Texts, "\n")
	state.Metadata["query_category"] = state.QueryCategory.String()
	state.Metadata["context_used"] = len(state.RetrievedContext)
	state.Metadata["response_length"] = len(state.Response)
	state.Metadata["sources_used"] = state.ContextSources()
	state.Metadata["user_preferences_applied"] = state.Profile != nil
	return nil
}

// renderTurns flattens the recent conversation into a single prompt body,
// ending with an open assistant turn for the model to complete.
func renderTurns(turns []model.Turn) string {
	var sb strings.Builder
	for _, turn := range turns {
		switch turn.Role {
		case types.SenderUser:
			fmt.Fprintf(&sb, "User: %s\n", turn.Content)
		case types.SenderBot:
			fmt.Fprintf(&sb, "Assistant: %s\n", turn.Content)
		}
	}
	sb.WriteString("Assistant:")
	return sb.String()
}
