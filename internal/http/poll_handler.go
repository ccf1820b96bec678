package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pollshare/internal/domain/poll"
	"pollshare/internal/platform/apperr"
)

type createPollRequest struct {
	Question    string   `json:"question"`
	Description *string  `json:"description"`
	ExpiresAt   *string  `json:"expires_at"`
	Options     []string `json:"options"`
}

type updatePollRequest struct {
	Question    string  `json:"question"`
	Description *string `json:"description"`
	ExpiresAt   *string `json:"expires_at"`
}

type updatePollCompleteRequest struct {
	Question    string   `json:"question"`
	Description *string  `json:"description"`
	ExpiresAt   *string  `json:"expires_at"`
	Options     []string `json:"options"`
}

type replaceOptionsRequest struct {
	Options []string `json:"options"`
}

// @Summary     Create a poll
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Param       request  body      createPollRequest  true  "Poll payload"
// @Success     201      {object}  map[string]string
// @Failure     400      {object}  map[string]string  "validation failed"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		errorResponse(w, err)
		return
	}

	id, err := h.pollSvc.Create(r.Context(), poll.CreateInput{
		Question:    req.Question,
		Description: req.Description,
		ExpiresAt:   expiresAt,
		Options:     req.Options,
		OwnerID:     userIDFromCtx(r),
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.pollSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	if p == nil {
		errorResponse(w, apperr.NotFound("poll_not_found", "poll not found", nil))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleMyPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.ListByOwner(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *Handler) handleUpdatePoll(w http.ResponseWriter, r *http.Request) {
	var req updatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	fields, err := updateFields(req.Question, req.Description, req.ExpiresAt)
	if err != nil {
		errorResponse(w, err)
		return
	}

	if err := h.pollSvc.Update(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r), fields); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdatePollComplete(w http.ResponseWriter, r *http.Request) {
	var req updatePollCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	fields, err := updateFields(req.Question, req.Description, req.ExpiresAt)
	if err != nil {
		errorResponse(w, err)
		return
	}

	// nil options means "leave the option set alone"
	if err := h.pollSvc.UpdateComplete(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r), fields, req.Options); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReplaceOptions(w http.ResponseWriter, r *http.Request) {
	var req replaceOptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.pollSvc.ReplaceOptions(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r), req.Options); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.pollSvc.Delete(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r)); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func updateFields(question string, description, expiresAt *string) (poll.UpdateFields, error) {
	exp, err := parseExpiry(expiresAt)
	if err != nil {
		return poll.UpdateFields{}, err
	}
	return poll.UpdateFields{
		Question:    question,
		Description: description,
		ExpiresAt:   exp,
	}, nil
}

func parseExpiry(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, apperr.Validation("expires_at: must be an RFC3339 timestamp", err)
	}
	return &t, nil
}
