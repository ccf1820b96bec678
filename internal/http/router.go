package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"pollshare/internal/domain/poll"
	"pollshare/internal/domain/user"
	"pollshare/internal/domain/vote"
	"pollshare/internal/metrics"
	jwtpkg "pollshare/internal/platform/jwt"
	"pollshare/internal/services"
	"pollshare/internal/worker"
)

type Handler struct {
	userSvc       *user.Service
	pollSvc       *poll.Service
	voteSvc       *vote.Service
	jwtMgr        *jwtpkg.Manager
	suggester     *services.Suggester
	voteCh        chan<- worker.VoteEvent
	db            *sql.DB
	publicBaseURL string
}

func NewRouter(
	userSvc *user.Service,
	pollSvc *poll.Service,
	voteSvc *vote.Service,
	jwtMgr *jwtpkg.Manager,
	suggester *services.Suggester,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
	publicBaseURL string,
) http.Handler {
	metrics.Register()

	h := &Handler{
		userSvc:       userSvc,
		pollSvc:       pollSvc,
		voteSvc:       voteSvc,
		jwtMgr:        jwtMgr,
		suggester:     suggester,
		voteCh:        voteCh,
		db:            db,
		publicBaseURL: publicBaseURL,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		// readable by anyone, authenticated or not
		r.Get("/polls/{id}", h.handleGetPoll)
		r.Get("/polls/{id}/results", h.handlePollResults)
		r.Get("/polls/{id}/qr", h.handlePollQR)

		// voting allows anonymous principals
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthMiddleware(jwtMgr))
			r.With(RateLimitVotes(rate.Every(time.Minute/10), 3)).Post("/polls/{id}/vote", h.handleVote)
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Post("/polls", h.handleCreatePoll)
			r.Get("/polls", h.handleMyPolls)
			r.Patch("/polls/{id}", h.handleUpdatePoll)
			r.Put("/polls/{id}", h.handleUpdatePollComplete)
			r.Put("/polls/{id}/options", h.handleReplaceOptions)
			r.Delete("/polls/{id}", h.handleDeletePoll)
			r.Get("/polls/{id}/voted", h.handleHasVoted)
			r.Post("/suggest", h.handleSuggest)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
