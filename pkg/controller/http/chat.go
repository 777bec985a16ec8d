package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pitchside-lab/pitchside/pkg/domain/model"
	"github.com/pitchside-lab/pitchside/pkg/utils/errutil"
)

// chatHandler runs one conversation turn. The orchestrator degrades
// internally rather than failing, so a well-formed request always gets a 200.
func chatHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid chat request body"), http.StatusBadRequest)
			return
		}

		if req.Message == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("message is required"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("user_id is required"), http.StatusBadRequest)
			return
		}

		result := uc.Chat(r.Context(), &req)
		respondJSON(r.Context(), w, http.StatusOK, result)
	}
}
