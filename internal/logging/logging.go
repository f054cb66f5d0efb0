// Package logging builds the slog loggers used by the primes command.
//
// Records are written to stderr by default so that results printed on
// stdout stay machine readable. Two formats are supported: "text" (the
// default, key=value pairs) and "json" (one object per line).
//
//	logger := logging.New(logging.Config{Level: "debug", Service: "primes"})
//	logger.Info("sieve done", "limit", 1000, "elapsed", time.Since(start))
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config describes a logger.
type Config struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Format is FormatText or FormatJSON. Empty means FormatText.
	Format string

	// Service, when set, is attached to every record as "service".
	Service string

	// Output receives the records. Nil means os.Stderr.
	Output io.Writer
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New creates a logger from cfg. An unknown level falls back to info.
func New(cfg Config) *slog.Logger {
	level, _ := ParseLevel(cfg.Level)
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(h)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
