// Package logging provides structured logging for the reconciler.
//
// Console output is formatted as: [LEVEL] [SYSTEM] [HH:MM:SS] message
// key=value, with colors when attached to a terminal. JSON output is
// available for non-interactive deployments.
package logging

import (
	"log/slog"
	"os"
)

// Config holds logging configuration.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewLogger creates a structured logger based on config
func NewLogger(cfg Config) *slog.Logger {
	// Parse log level
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g. "api",
// "ingest"), useful for scoped loggers injected into other components.
func NewLoggerWithSystem(cfg Config, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}
