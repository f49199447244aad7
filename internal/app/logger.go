package app

import (
	"log/slog"
	"os"
	"strings"

	"logihub/internal/logx"
)

// newLogger builds the process-wide JSON logger.
func newLogger(level string) logx.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return logx.NewSlogAdapter(slog.New(h))
}
