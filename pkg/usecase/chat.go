package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/classify"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
)

// Chat runs one conversation turn through the pipeline. It never returns an
// error: every internal failure resolves to a populated result, at worst
// carrying the fallback response and diagnostic metadata.
func (uc *UseCases) Chat(ctx context.Context, req *model.ChatRequest) *model.ChatResult {
	state := newConversationState(req)
	uc.runPipeline(ctx, state)

	if state.Response == "" {
		state.Response = fallbackResponse
	}

	return &model.ChatResult{
		Response:       state.Response,
		QueryCategory:  state.QueryCategory,
		ContextSources: state.ContextSources(),
		SessionID:      state.SessionID,
		Metadata:       state.Metadata,
		ToolsUsed:      state.SuccessfulTools(),
		Profile:        state.Profile,
	}
}

// newConversationState seeds the working state from the request: supplied
// history first, then the new user message. A session ID is minted when the
// caller did not provide one.
func newConversationState(req *model.ChatRequest) *model.ConversationState {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	messages := make([]model.Turn, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, model.Turn{Role: types.SenderUser, Content: req.Message})

	return &model.ConversationState{
		Messages:      messages,
		UserID:        req.UserID,
		SessionID:     sessionID,
		QueryCategory: types.QueryGeneral,
		Metadata:      map[string]any{},
	}
}

func (uc *UseCases) retrieveProfile(ctx context.Context, state *model.ConversationState) error {
	profile, err := uc.repo.Profile().Get(ctx, state.UserID)
	if err != nil {
		state.Profile = model.NewUserProfile(state.UserID)
		return goerr.Wrap(err, "failed to retrieve user profile")
	}
	if profile == nil {
		profile = model.NewUserProfile(state.UserID)
	}
	state.Profile = profile
	return nil
}

func (uc *UseCases) extractPreferences(ctx context.Context, state *model.ConversationState) error {
	message := state.LastUserMessage()
	if message == "" {
		return nil
	}

	extracted := uc.extractor.Extract(message, priorUserTurns(state))
	state.Extracted = extracted
	state.Metadata["extracted_preferences"] = extracted

	if extracted.IsEmpty() || extracted.Confidence <= uc.minConfidence {
		return nil
	}

	profile, err := uc.repo.Profile().UpsertPreferences(ctx, state.UserID, extracted)
	if err != nil {
		return goerr.Wrap(err, "failed to persist extracted preferences")
	}
	state.Profile = profile

	if len(extracted.BetTypes) > 0 {
		profile, err = uc.repo.Profile().UpdateBettingPreferences(ctx, state.UserID, model.BettingPreferences{
			FavoriteBetTypes: extracted.BetTypes,
			RiskTolerance:    extracted.RiskTolerance,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to persist betting preferences")
		}
		state.Profile = profile
	}
	return nil
}

// priorUserTurns joins the user's earlier utterances (up to four) so
// preference signals spread over the conversation still count.
func priorUserTurns(state *model.ConversationState) string {
	var parts []string
	for _, turn := range state.Messages[:len(state.Messages)-1] {
		if turn.Role == types.SenderUser {
			parts = append(parts, turn.Content)
		}
	}
	if len(parts) > 4 {
		parts = parts[len(parts)-4:]
	}
	return strings.Join(parts, " ")
}

func (uc *UseCases) categorizeQuery(ctx context.Context, state *model.ConversationState) error {
	if message := state.LastUserMessage(); message != "" {
		state.QueryCategory = classify.Classify(message)
	}
	return nil
}

func (uc *UseCases) checkToolsNeeded(ctx context.Context, state *model.ConversationState) error {
	state.NeedsTools = uc.executor.NeedsTools(state.LastUserMessage())
	return nil
}

func (uc *UseCases) executeTools(ctx context.Context, state *model.ConversationState) error {
	state.ToolResults = uc.executor.Execute(ctx, state.UserID, state.LastUserMessage(), state.Profile)
	return nil
}

func (uc *UseCases) retrieveContext(ctx context.Context, state *model.ConversationState) error {
	query := enhanceQuery(state.LastUserMessage(), state.Profile)

	passages, err := uc.index.Query(ctx, types.NamespaceGlobal, query, rag.DefaultTopK)
	if err != nil {
		return goerr.Wrap(err, "failed to retrieve global context")
	}
	state.RetrievedContext = passages

	personal, err := uc.index.Query(ctx, types.NamespaceForUser(state.UserID), query, userContextTopK)
	if err != nil {
		// Keep the global passages; losing personal context is a degradation
		return goerr.Wrap(err, "failed to retrieve personal context")
	}
	state.RetrievedContext = append(state.RetrievedContext, personal...)
	return nil
}

// enhanceQuery appends the user's favorites so retrieval leans toward the
// teams and leagues they care about.
func enhanceQuery(query string, profile *model.UserProfile) string {
	if profile == nil {
		return query
	}
	if len(profile.FavoriteTeams) > 0 {
		query += " (user follows: " + strings.Join(profile.FavoriteTeams, ", ") + ")"
	}
	if len(profile.FavoriteLeagues) > 0 {
		query += " (leagues: " + strings.Join(profile.FavoriteLeagues, ", ") + ")"
	}
	return query
}

func (uc *UseCases) storeInteraction(ctx context.Context, state *model.ConversationState) error {
	userMessage := state.LastUserMessage()
	if userMessage == "" || state.Response == "" {
		return nil
	}

	if _, err := uc.repo.Session().Get(ctx, state.SessionID); err != nil {
		session := &model.ChatSession{
			ID:     state.SessionID,
			UserID: state.UserID,
			Type:   types.SessionTypeBetting,
		}
		if _, err := uc.repo.Session().Create(ctx, session); err != nil {
			return goerr.Wrap(err, "failed to create chat session")
		}
	}

	if _, err := uc.repo.Message().Add(ctx, &model.ChatMessage{
		SessionID: state.SessionID,
		Sender:    types.SenderUser,
		Message:   userMessage,
		Type:      types.MessageTypeBettingQuery,
		Metadata:  map[string]any{"category": state.QueryCategory.String()},
	}); err != nil {
		return goerr.Wrap(err, "failed to store user message")
	}

	if _, err := uc.repo.Message().Add(ctx, &model.ChatMessage{
		SessionID: state.SessionID,
		Sender:    types.SenderBot,
		Message:   state.Response,
		Type:      types.MessageTypeBettingResponse,
		Metadata: map[string]any{
			"query_category":  state.QueryCategory.String(),
			"context_sources": state.ContextSources(),
			"tools_used":      state.SuccessfulTools(),
		},
	}); err != nil {
		return goerr.Wrap(err, "failed to store bot response")
	}
	return nil
}
