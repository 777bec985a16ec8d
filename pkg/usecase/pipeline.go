package usecase

import (
	"context"

	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
)

// Stage names as recorded in result metadata
const (
	stageRetrieveProfile    = "retrieve_profile"
	stageExtractPreferences = "extract_preferences"
	stageCategorizeQuery    = "categorize_query"
	stageCheckToolsNeeded   = "check_tools_needed"
	stageExecuteTools       = "execute_tools"
	stageRetrieveContext    = "retrieve_context"
	stagePersonalizePrompt  = "personalize_prompt"
	stageGenerateResponse   = "generate_response"
	stageStoreInteraction   = "store_interaction"
)

type pipelineStage struct {
	name string
	run  func(ctx context.Context, state *model.ConversationState) error
	skip func(state *model.ConversationState) bool
}

// pipeline is the fixed stage order of one conversation turn. The only
// branch point is execute_tools, which runs only when check_tools_needed
// decided that external data is warranted.
func (uc *UseCases) pipeline() []pipelineStage {
	return []pipelineStage{
		{name: stageRetrieveProfile, run: uc.retrieveProfile},
		{name: stageExtractPreferences, run: uc.extractPreferences},
		{name: stageCategorizeQuery, run: uc.categorizeQuery},
		{name: stageCheckToolsNeeded, run: uc.checkToolsNeeded},
		{
			name: stageExecuteTools,
			run:  uc.executeTools,
			skip: func(state *model.ConversationState) bool { return !state.NeedsTools },
		},
		{name: stageRetrieveContext, run: uc.retrieveContext},
		{name: stagePersonalizePrompt, run: uc.personalizePrompt},
		{name: stageGenerateResponse, run: uc.generateResponse},
		{name: stageStoreInteraction, run: uc.storeInteraction},
	}
}

// runPipeline drives the state through every stage. A failing stage is
// degraded, not fatal: the error is logged, the stage name is recorded in
// metadata, and the next stage still runs against the state's safe defaults.
// Only a generation failure changes the visible outcome, swapping in the
// canned fallback response.
func (uc *UseCases) runPipeline(ctx context.Context, state *model.ConversationState) {
	logger := logging.From(ctx)

	for _, stage := range uc.pipeline() {
		if stage.skip != nil && stage.skip(state) {
			continue
		}

		err := stage.run(ctx, state)
		if err == nil {
			continue
		}

		logger.Warn("pipeline stage degraded", "stage", stage.name, "error", err)
		degraded, _ := state.Metadata["degraded_stages"].([]string)
		state.Metadata["degraded_stages"] = append(degraded, stage.name)

		if stage.name == stageGenerateResponse {
			state.Response = fallbackResponse
			state.Metadata["fallback_used"] = true
			state.Metadata["error"] = err.Error()
		}
	}
}
