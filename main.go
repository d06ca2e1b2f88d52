// FinMate - seeded budget dashboard with a simulated savings coach
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/finmate/finmate/coach"
	"github.com/finmate/finmate/logger"
	"github.com/finmate/finmate/seed"
	"github.com/finmate/finmate/server"
	"github.com/finmate/finmate/state"
	"github.com/finmate/finmate/store"
)

func main() {
	_ = godotenv.Load()

	development := os.Getenv("FINMATE_ENV") != "production"
	if err := logger.Init(development, logger.LogLevel(os.Getenv("FINMATE_LOG_LEVEL"))); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("FINMATE_DB")
	if dbPath == "" {
		dbPath = "finmate.db"
	}

	appState := state.New()

	// Persistence is best-effort: the demo degrades to memory-only when the
	// database cannot be opened.
	persist, err := store.Open(dbPath)
	if err != nil {
		log.Warn("sqlite unavailable, running memory-only", zap.Error(err))
		persist = nil
	} else {
		defer persist.Close()
		snap, found, err := persist.LoadSnapshot(context.Background())
		switch {
		case err != nil:
			log.Warn("failed to restore snapshot", zap.Error(err))
		case found:
			appState.Restore(snap)
			log.Info("restored persisted state",
				zap.Int("transactions", len(snap.Transactions)),
				zap.Int("messages", len(snap.Coach.Messages)))
		}
	}

	// First run: load the seed datasets so the dashboard has data.
	if !appState.HasData() {
		data, err := seed.Load(time.Now())
		if err != nil {
			log.Fatal("failed to load seed data", zap.Error(err))
		}
		appState.LoadSeeds(data)
		log.Info("loaded seed data",
			zap.Int("transactions", len(data.Transactions)),
			zap.Int("goals", len(data.Goals)))
	}

	engine := coach.New(appState, coach.Config{})

	srv := server.New(server.Config{
		State:   appState,
		Coach:   engine,
		Persist: persist,
		Logger:  log,
	})

	if err := srv.Run(":" + port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
