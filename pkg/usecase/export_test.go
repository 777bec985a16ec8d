package usecase

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
)

// Exported for white-box testing
var (
	UserContextBlock = userContextBlock
	RenderTurns      = renderTurns
	FallbackResponse = fallbackResponse
)

// BuildSystemPrompt runs the prompt assembly stage against a prepared state
func (uc *UseCases) BuildSystemPrompt(ctx context.Context, state *model.ConversationState) (string, error) {
	if err := uc.personalizePrompt(ctx, state); err != nil {
		return "", err
	}
	return state.SystemPrompt, nil
}
