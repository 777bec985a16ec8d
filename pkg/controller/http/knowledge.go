package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
	"github.com/pitchside-lab/pitchside/pkg/utils/errutil"
)

const defaultSearchLimit = 10

type knowledgeCreateRequest struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Category types.Category    `json:"category"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type knowledgeUpdateRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func knowledgeCreateHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req knowledgeCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid knowledge request body"), http.StatusBadRequest)
			return
		}

		if req.Title == "" || req.Content == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("title and content are required"), http.StatusBadRequest)
			return
		}
		if err := req.Category.Validate(); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		doc, err := uc.IngestKnowledge(r.Context(), req.Title, req.Content, req.Category, req.Source, req.Metadata)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, doc)
	}
}

func knowledgeListHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, ok := categoryParam(w, r)
		if !ok {
			return
		}

		docs, err := uc.ListKnowledge(r.Context(), category)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, docs)
	}
}

func knowledgeGetHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, ok := categoryParam(w, r)
		if !ok {
			return
		}

		id := types.DocumentID(chi.URLParam(r, "id"))
		doc, err := uc.GetKnowledge(r.Context(), id, category)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, knowledgeStatus(err))
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, doc)
	}
}

func knowledgeUpdateHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req knowledgeUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid knowledge request body"), http.StatusBadRequest)
			return
		}
		if req.Content == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("content is required"), http.StatusBadRequest)
			return
		}

		id := types.DocumentID(chi.URLParam(r, "id"))
		doc, err := uc.UpdateKnowledge(r.Context(), id, req.Content, req.Metadata)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, knowledgeStatus(err))
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, doc)
	}
}

func knowledgeDeleteHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.DocumentID(chi.URLParam(r, "id"))
		if err := uc.DeleteKnowledge(r.Context(), id); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, knowledgeStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func knowledgeSearchHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("query parameter q is required"), http.StatusBadRequest)
			return
		}
		category, ok := categoryParam(w, r)
		if !ok {
			return
		}

		limit := defaultSearchLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				errutil.HandleHTTP(r.Context(), w, goerr.New("limit must be a positive integer", goerr.V("limit", raw)), http.StatusBadRequest)
				return
			}
			limit = n
		}

		docs, err := uc.SearchKnowledge(r.Context(), query, category, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, docs)
	}
}

func knowledgeStatsHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := uc.KnowledgeStats(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, stats)
	}
}

func knowledgeSeedHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := uc.SeedKnowledge(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]int{"seeded": count})
	}
}

// categoryParam reads the optional category query parameter. An empty value
// means no category filter. Returns false when an invalid category was given
// and a 400 has already been written.
func categoryParam(w http.ResponseWriter, r *http.Request) (types.Category, bool) {
	category := types.Category(r.URL.Query().Get("category"))
	if category == "" {
		return "", true
	}
	if err := category.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return "", false
	}
	return category, true
}

func knowledgeStatus(err error) int {
	if errors.Is(err, knowledge.ErrDocumentNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
