package paramgrid

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/paramgrid/store"
)

// Logger wraps slog.Logger with paramgrid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithParam adds a parameter name field to the logger.
func (l *Logger) WithParam(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("param", name),
	}
}

// WithLabel adds a label field to the logger.
func (l *Logger) WithLabel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAdjust logs an applied adjustment.
func (l *Logger) LogAdjust(ctx context.Context, param string, stats store.MergeStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "adjust failed",
			"param", param,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "adjust completed",
			"param", param,
			"updated", stats.Updated,
			"deleted", stats.Deleted,
			"appended", stats.Appended,
			"replaced", stats.Replaced,
		)
	}
}

// LogQuery logs a selection.
func (l *Logger) LogQuery(ctx context.Context, param string, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"param", param,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"param", param,
			"results", results,
		)
	}
}

// LogArray logs a dense conversion.
func (l *Logger) LogArray(ctx context.Context, param string, shape []int, err error) {
	if err != nil {
		l.WarnContext(ctx, "array conversion failed",
			"param", param,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "array conversion completed",
			"param", param,
			"shape", shape,
		)
	}
}

// LogLoad logs a document load.
func (l *Logger) LogLoad(ctx context.Context, uri string, params int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"uri", uri,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"uri", uri,
			"params", params,
		)
	}
}
