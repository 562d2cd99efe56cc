package logging

import (
	"log/slog"
	"os"
)

// Init installs the default slog logger at the named level.
func Init(levelName string) {
	level := slog.LevelInfo

	switch levelName {
	case "dev", "development", "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error", "production", "prod":
		level = slog.LevelError
	}

	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	)
	slog.SetDefault(logger)
}
