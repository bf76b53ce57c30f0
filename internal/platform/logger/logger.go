package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide JSON logger. Development runs log at debug level.
func New(development bool) *slog.Logger {
	level := slog.LevelInfo
	if development {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
