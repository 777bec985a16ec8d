package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	httpctl "github.com/pitchside-lab/pitchside/pkg/controller/http"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/repository/memory"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/service/rag"
	"github.com/pitchside-lab/pitchside/pkg/usecase"
)

const testResponse = "Here is my take on that fixture."

type mockSession struct{}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return &gollem.Response{Texts: []string{testResponse}}, nil
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockSession) History() (*gollem.History, error) { return nil, nil }

func (s *mockSession) AppendHistory(*gollem.History) error { return nil }

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct{}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
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

func newTestServer(t *testing.T) *httpctl.Server {
	t.Helper()
	llm := &mockLLMClient{}
	store, err := knowledge.NewStore(t.TempDir())
	gt.NoError(t, err).Required()
	uc := usecase.New(memory.New(), llm, rag.New(llm), store)
	return httpctl.New(uc)
}

func doJSON(t *testing.T, srv *httpctl.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("valid request returns a chat result", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{
			"message": "Any betting tips for the weekend?",
			"user_id": "user-1",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var result model.ChatResult
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()
		gt.Value(t, result.Response).Equal(testResponse)
		gt.Bool(t, result.SessionID == "").False()
	})

	t.Run("missing message is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{
			"user_id": "user-1",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing user_id is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]string{
			"message": "hello",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestKnowledgeEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/knowledge", map[string]any{
		"title":    "Arsenal Profile",
		"content":  "Arsenal are unbeaten at home this season",
		"category": "teams",
		"source":   "manual",
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var doc model.KnowledgeDocument
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc)).Required()
	gt.Bool(t, doc.ID == "").False()

	t.Run("list returns the document", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/knowledge?category=teams", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var docs []*model.KnowledgeDocument
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs)).Required()
		gt.Array(t, docs).Length(1)
	})

	t.Run("get by ID", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/knowledge/%s", doc.ID), nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var got model.KnowledgeDocument
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got)).Required()
		gt.Value(t, got.ID).Equal(doc.ID)
	})

	t.Run("unknown document yields 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/knowledge/missing0000", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("invalid category is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/knowledge", map[string]any{
			"title":    "X",
			"content":  "Y",
			"category": "horoscope",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("search finds by substring", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/knowledge/search?q=unbeaten", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var docs []*model.KnowledgeDocument
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs)).Required()
		gt.Array(t, docs).Length(1)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/knowledge/%s", doc.ID), map[string]any{
			"content": "Arsenal lost their unbeaten home record",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/knowledge/%s", doc.ID), nil)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/knowledge/%s", doc.ID), nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestKnowledgeStatsAndSeed(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/knowledge/seed", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var seeded map[string]int
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seeded)).Required()
	gt.Value(t, seeded["seeded"]).Equal(5)

	rec = doJSON(t, srv, http.MethodGet, "/api/knowledge/stats", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var stats model.KnowledgeStats
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats)).Required()
	gt.Value(t, stats.TotalDocuments).Equal(5)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}
