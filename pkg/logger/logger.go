// Package logger provides structured logging for change-monitor.
//
// All components log through the Logger interface rather than calling
// log/slog directly, so tests can swap in Noop() and the CLI can switch
// between text and JSON output from a single flag.
//
// Example usage:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"})
//	log.Info("watch registered", "path", "/repo/src", "recursive", true)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides leveled structured logging with key-value attributes.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a logger that includes the given attributes on every record.
	With(keysAndValues ...any) Logger
}

// Config contains logger configuration.
type Config struct {
	// Level is the minimum level to record (debug, info, warn, error).
	Level string

	// Format selects the record encoding (text, json).
	Format string

	// Output is the destination (stderr, stdout, or a file path).
	Output string

	// AddSource includes the caller's file:line in each record.
	AddSource bool
}

type slogLogger struct {
	s *slog.Logger
}

// New creates a logger from cfg. Invalid settings fall back to the
// defaults (info level, text format, stderr) rather than failing.
func New(cfg Config) Logger {
	w, err := openOutput(cfg.Output)
	if err != nil {
		w = os.Stderr
	}
	return NewWithWriter(w, cfg)
}

// NewWithWriter creates a logger writing to w, ignoring cfg.Output.
// Used by tests to capture records.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &slogLogger{s: slog.New(h)}
}

func (l *slogLogger) Debug(msg string, keysAndValues ...any) {
	l.s.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Info(msg string, keysAndValues ...any) {
	l.s.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warn(msg string, keysAndValues ...any) {
	l.s.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Error(msg string, keysAndValues ...any) {
	l.s.Error(msg, keysAndValues...)
}

func (l *slogLogger) With(keysAndValues ...any) Logger {
	return &slogLogger{s: l.s.With(keysAndValues...)}
}

// parseLevel converts a level name to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openOutput resolves an output name to a writer. Anything that is not
// "stdout" or "stderr" is treated as a file path opened for append.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", output, err)
		}
		return f, nil
	}
}

// Default returns an info-level text logger on stderr.
func Default() Logger {
	return New(Config{})
}

// Noop returns a logger that discards everything. Useful in tests.
func Noop() Logger {
	return NewWithWriter(io.Discard, Config{Level: "error"})
}
