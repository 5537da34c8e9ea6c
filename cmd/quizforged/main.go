package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	api "github.com/quizforge/quizforge/internal/api/http"
	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db"
	"github.com/quizforge/quizforge/internal/draft"
	"github.com/quizforge/quizforge/internal/eventlog"
	"github.com/quizforge/quizforge/internal/genai"
	"github.com/quizforge/quizforge/internal/kv"
	"github.com/quizforge/quizforge/internal/lib/slogcustom"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/session"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slogcustom.NewHandler(os.Stderr, slog.LevelInfo))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)
	users := auth.NewUsers(dbh)
	events := eventlog.NewRepo(dbh)

	slot, err := kv.NewFSStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	drafts := draft.NewStore(slot)

	gen := genai.NewClient(cfg.AI)
	if !cfg.AI.IsEnabled() {
		logger.Warn("GEMINI_API_KEY not set; quiz generation will fail until configured")
	}

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	registry := session.NewRegistry(store, drafts, gen, events, logger)

	handler := api.NewRouter(api.Deps{
		Users:       users,
		AuthService: authSvc,
		Store:       store,
		Sessions:    registry,
		CORSOrigins: cfg.CORSOrigins,
	})

	logger.Info("quizforged listening", "addr", cfg.HTTPAddr, "mode", string(cfg.Mode), "db", cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, handler))
}
