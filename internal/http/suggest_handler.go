package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"pollshare/internal/platform/apperr"
)

type suggestRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		errorResponse(w, apperr.Validation("question: must not be empty", nil))
		return
	}

	suggestion := h.suggester.SuggestQuestion(r.Context(), req.Question, req.Options)

	writeJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}
