// Package observability provides structured logging utilities for
// Shiftward.
package observability

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	// LogFormatText outputs human-readable text logs.
	LogFormatText LogFormat = "text"
	// LogFormatJSON outputs JSON-structured logs for production.
	LogFormatJSON LogFormat = "json"
)

// LogLevel represents logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures the logger.
type LogConfig struct {
	// Level sets the minimum log level.
	Level LogLevel
	// Format specifies the output format (text or json).
	Format LogFormat
	// Output is the writer for logs. Defaults to os.Stderr.
	Output io.Writer
	// ServiceName is included in all log entries.
	ServiceName string
}

// DefaultLogConfig returns sensible defaults for development.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		Output:      os.Stderr,
		ServiceName: "shiftward",
	}
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseSlogLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	if cfg.ServiceName != "" {
		logger = logger.With("service", cfg.ServiceName)
	}
	return logger
}

// LoggerFromEnv creates a logger based on environment variables.
// SHIFTWARD_LOG_LEVEL: debug, info, warn, error
// SHIFTWARD_LOG_FORMAT: text, json
func LoggerFromEnv() *slog.Logger {
	cfg := DefaultLogConfig()

	if level := os.Getenv("SHIFTWARD_LOG_LEVEL"); level != "" {
		cfg.Level = LogLevel(level)
	}
	if format := os.Getenv("SHIFTWARD_LOG_FORMAT"); format != "" {
		cfg.Format = LogFormat(format)
	}

	return NewLogger(cfg)
}

func parseSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDuration logs the duration of an operation.
func LogDuration(logger *slog.Logger, operation string, start time.Time) {
	logger.Info("operation completed",
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
