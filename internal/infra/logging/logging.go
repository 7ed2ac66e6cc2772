// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup routes slog's default logger to w as JSON at the given level.
func Setup(w io.Writer, level slog.Level) {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}

// SetupJSON is Setup targeting stdout, the normal path for binaries.
func SetupJSON(level slog.Level) {
	Setup(os.Stdout, level)
}
