package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pollshare/internal/domain/vote"
	"pollshare/internal/platform/apperr"
	"pollshare/internal/worker"
)

type voteRequest struct {
	OptionID string `json:"option_id"`
}

type pollResultsResponse struct {
	PollID     string        `json:"poll_id"`
	TotalVotes int64         `json:"total_votes"`
	Options    []vote.Result `json:"options"`
}

// @Summary     Vote for an option
// @Tags        votes
// @Accept      json
// @Param       id       path      string       true  "Poll ID"
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid body or option not in poll"
// @Failure     409      {object}  map[string]string  "already voted"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "id")

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.OptionID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "option_id is required", nil))
		return
	}

	voterID := voterIDFromCtx(r)

	if err := h.voteSvc.Cast(r.Context(), pollID, req.OptionID, voterID); err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.voteCh <- worker.VoteEvent{PollID: pollID, OptionID: req.OptionID, Anonymous: voterID == nil}:
	default:
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Poll results
// @Tags        polls
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {object} pollResultsResponse
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "id")

	res, total, err := h.voteSvc.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pollResultsResponse{
		PollID:     pollID,
		TotalVotes: total,
		Options:    res,
	})
}

func (h *Handler) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	voted, err := h.voteSvc.HasUserVoted(r.Context(), chi.URLParam(r, "id"), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}
