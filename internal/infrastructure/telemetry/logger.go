package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogger creates the process-wide structured logger. Output is JSON on
// stdout; debug level additionally records source locations.
func SetupLogger(level, environment string) *slog.Logger {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).With(
		"service", "player-auction",
		"environment", environment,
	)
	slog.SetDefault(logger)

	return logger
}
