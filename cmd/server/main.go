package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "pollshare/docs"
	"pollshare/internal/config"
	"pollshare/internal/domain/poll"
	"pollshare/internal/domain/user"
	"pollshare/internal/domain/vote"
	api "pollshare/internal/http"
	"pollshare/internal/platform/database"
	jwtpkg "pollshare/internal/platform/jwt"
	"pollshare/internal/repository/postgres"
	"pollshare/internal/services"
	"pollshare/internal/worker"
)

// @title           Pollshare API
// @version         1.0
// @description     Poll creation, sharing and voting with anonymous voters allowed
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	pollRepo := postgres.NewPollRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	userSvc := user.NewService(userRepo)
	voteSvc := vote.NewService(voteRepo)
	pollSvc := poll.NewService(pollRepo, voteSvc)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret)
	suggester := services.NewSuggester(cfg.LLMBaseURL, cfg.LLMToken, cfg.LLMModel)

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh)

	router := api.NewRouter(userSvc, pollSvc, voteSvc, jwtMgr, suggester, voteCh, db, cfg.PublicBaseURL)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go statsWorker.Run(ctx)

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
