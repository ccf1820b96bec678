package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"pollshare/internal/platform/apperr"
)

// handlePollQR renders the poll's share URL as a QR PNG. The poll must exist;
// unknown ids 404 instead of encoding a dead link.
func (h *Handler) handlePollQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.pollSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if p == nil {
		errorResponse(w, apperr.NotFound("poll_not_found", "poll not found", nil))
		return
	}

	png, err := qrcode.Encode(h.publicBaseURL+"/polls/"+id, qrcode.Medium, 256)
	if err != nil {
		errorResponse(w, apperr.Internal("qr_failed", "could not render QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
