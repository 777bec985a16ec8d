package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/utils/errutil"
	"github.com/pitchside-lab/pitchside/pkg/utils/logging"
)

// UseCase is the application surface the HTTP layer depends on
type UseCase interface {
	Chat(ctx context.Context, req *model.ChatRequest) *model.ChatResult

	IngestKnowledge(ctx context.Context, title, content string, category types.Category, source string, metadata map[string]string) (*model.KnowledgeDocument, error)
	GetKnowledge(ctx context.Context, id types.DocumentID, category types.Category) (*model.KnowledgeDocument, error)
	ListKnowledge(ctx context.Context, category types.Category) ([]*model.KnowledgeDocument, error)
	SearchKnowledge(ctx context.Context, query string, category types.Category, limit int) ([]*model.KnowledgeDocument, error)
	UpdateKnowledge(ctx context.Context, id types.DocumentID, content string, metadata map[string]string) (*model.KnowledgeDocument, error)
	DeleteKnowledge(ctx context.Context, id types.DocumentID) error
	KnowledgeStats(ctx context.Context) (*model.KnowledgeStats, error)
	SeedKnowledge(ctx context.Context) (int, error)
}

type Server struct {
	router *chi.Mux
	uc     UseCase
}

type Options func(*Server)

func New(uc UseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler(s.uc))

		r.Route("/knowledge", func(r chi.Router) {
			r.Post("/", knowledgeCreateHandler(s.uc))
			r.Get("/", knowledgeListHandler(s.uc))
			r.Get("/search", knowledgeSearchHandler(s.uc))
			r.Get("/stats", knowledgeStatsHandler(s.uc))
			r.Post("/seed", knowledgeSeedHandler(s.uc))
			r.Get("/{id}", knowledgeGetHandler(s.uc))
			r.Put("/{id}", knowledgeUpdateHandler(s.uc))
			r.Delete("/{id}", knowledgeDeleteHandler(s.uc))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON marshals v and writes it with the given status code
func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data) //nolint:errcheck // header already committed
}
