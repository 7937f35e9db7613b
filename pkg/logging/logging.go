// Package logging configures structured logging for the server: colored
// output with tint for development, JSON lines for production.
//
// Usage:
//
//	logger := logging.Setup(slog.LevelInfo, false) // tint on stderr
//	logger := logging.Setup(slog.LevelInfo, true)  // JSON on stdout
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup builds the logger for level and format and installs it as the slog
// default.
func Setup(level slog.Level, json bool) *slog.Logger {
	var logger *slog.Logger
	if json {
		logger = New(os.Stdout, level, true)
	} else {
		logger = New(os.Stderr, level, false)
	}
	slog.SetDefault(logger)
	return logger
}

// New returns a logger writing to w.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
	}))
}
