package main

import (
	"log/slog"
	"os"

	"github.com/jplsports/player-auction-backend/internal/infrastructure/config"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/database"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel, cfg.Environment)

	if cfg.Database.URL == "" {
		logger.Error("database.url is required")
		os.Exit(1)
	}

	if err := database.Migrate(cfg.Database.URL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")
}
