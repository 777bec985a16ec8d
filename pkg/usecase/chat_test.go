package usecase_test

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/repository/memory"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
)

const testResponse = "This is a test response from the betting assistant."

// mockSession is a mock gollem Session
type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{testResponse}}, nil
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient with bag-of-words embeddings so
// retrieval ranking still behaves sensibly.
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	embeddings := make([][]float64, len(input))
	for i, text := range input {
		vec := make([]float64, dimension)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			vec[int(h.Sum32())%dimension]++
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

func newTestUseCases(t *testing.T, llmClient gollem.LLMClient, opts ...usecase.Option) (*usecase.UseCases, interfaces.Repository, *rag.Index) {
	t.Helper()
	repo := memory.New()
	index := rag.New(llmClient)
	store, err := knowledge.NewStore(t.TempDir())
	gt.NoError(t, err).Required()
	return usecase.New(repo, llmClient, index, store, opts...), repo, index
}

func TestChat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("full turn with retrieval, tools and persistence", func(t *testing.T) {
		uc, repo, index := newTestUseCases(t, &mockLLMClient{})

		gt.NoError(t, index.AddText(ctx, types.NamespaceGlobal, "Liverpool FC Profile",
			"Liverpool press aggressively and have a strong recent form at Anfield",
			types.CategoryTeams, "Liverpool FC Profile"))

		result := uc.Chat(ctx, &model.ChatRequest{
			Message: "How is Liverpool's recent form? I love Liverpool",
			UserID:  "user-1",
		})

		gt.Value(t, result.Response).Equal(testResponse)
		gt.Bool(t, result.SessionID == "").False()
		gt.Value(t, result.QueryCategory).Equal(types.QueryTeamAnalysis)
		gt.Array(t, result.ContextSources).Has("Liverpool FC Profile")
		gt.Array(t, result.ToolsUsed).Has("get_team_form")

		_, degraded := result.Metadata["degraded_stages"]
		gt.Bool(t, degraded).False()

		// Preferences were persisted
		profile, err := repo.Profile().Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Array(t, profile.FavoriteTeams).Has("Liverpool")

		// Both sides of the turn were stored in order
		history, err := repo.Message().History(ctx, result.SessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(2)
		gt.Value(t, history[0].Sender).Equal(types.SenderUser)
		gt.Value(t, history[1].Sender).Equal(types.SenderBot)
		gt.Value(t, history[1].Type).Equal(types.MessageTypeBettingResponse)
	})

	t.Run("generation failure yields fallback, never an error", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, errors.New("model overloaded")
					},
				}, nil
			},
		}
		uc, repo, _ := newTestUseCases(t, llm)

		result := uc.Chat(ctx, &model.ChatRequest{
			Message: "What do you think about value betting?",
			UserID:  "user-2",
		})

		gt.Value(t, result.Response).Equal(usecase.FallbackResponse)
		gt.Value(t, result.Metadata["fallback_used"]).Equal(true)
		degraded := gt.Cast[[]string](t, result.Metadata["degraded_stages"])
		gt.Array(t, degraded).Has("generate_response")

		// The fallback is still persisted as the bot turn
		history, err := repo.Message().History(ctx, result.SessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(2)
		gt.Value(t, history[1].Message).Equal(usecase.FallbackResponse)
	})

	t.Run("profile store outage degrades but does not abort", func(t *testing.T) {
		repo := &profileFailingRepository{Repository: memory.New()}
		index := rag.New(&mockLLMClient{})
		store, err := knowledge.NewStore(t.TempDir())
		gt.NoError(t, err).Required()
		uc := usecase.New(repo, &mockLLMClient{}, index, store)

		result := uc.Chat(ctx, &model.ChatRequest{
			Message: "Hello there, what can you do?",
			UserID:  "user-3",
		})

		gt.Value(t, result.Response).Equal(testResponse)
		degraded := gt.Cast[[]string](t, result.Metadata["degraded_stages"])
		gt.Array(t, degraded).Has("retrieve_profile")
		gt.Value(t, result.Profile.UserID).Equal(types.UserID("user-3"))
	})

	t.Run("queries without tool signals skip tool execution", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t, &mockLLMClient{})

		result := uc.Chat(ctx, &model.ChatRequest{
			Message: "Tell me about the history of Arsenal",
			UserID:  "user-4",
		})

		gt.Array(t, result.ToolsUsed).Length(0)
		gt.Value(t, result.Response).Equal(testResponse)
	})

	t.Run("session continues across turns", func(t *testing.T) {
		uc, repo, _ := newTestUseCases(t, &mockLLMClient{})

		first := uc.Chat(ctx, &model.ChatRequest{
			Message: "I follow Chelsea",
			UserID:  "user-5",
		})

		second := uc.Chat(ctx, &model.ChatRequest{
			Message:   "What about their away games?",
			UserID:    "user-5",
			SessionID: first.SessionID,
			History: []model.Turn{
				{Role: types.SenderUser, Content: "I follow Chelsea"},
				{Role: types.SenderBot, Content: first.Response},
			},
		})

		gt.Value(t, second.SessionID).Equal(first.SessionID)

		history, err := repo.Message().History(ctx, first.SessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(4)
	})
}

// profileFailingRepository simulates a profile store outage
type profileFailingRepository struct {
	interfaces.Repository
}

func (r *profileFailingRepository) Profile() interfaces.ProfileRepository {
	return &failingProfileRepo{}
}

type failingProfileRepo struct{}

func (r *failingProfileRepo) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	return nil, errors.New("profile store unavailable")
}

func (r *failingProfileRepo) UpsertPreferences(ctx context.Context, userID types.UserID, delta model.ExtractedPreferences) (*model.UserProfile, error) {
	return nil, errors.New("profile store unavailable")
}

func (r *failingProfileRepo) UpdateBettingPreferences(ctx context.Context, userID types.UserID, prefs model.BettingPreferences) (*model.UserProfile, error) {
	return nil, errors.New("profile store unavailable")
}
