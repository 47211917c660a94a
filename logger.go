package scalarindex

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with scalarindex-specific helpers.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithValueType tags every record with the indexed value type.
func (l *Logger) WithValueType(valueType string) *Logger {
	return &Logger{
		Logger: l.Logger.With("value_type", valueType),
	}
}

// LogBuild logs a build from raw values or a dataset.
func (l *Logger) LogBuild(ctx context.Context, rows int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "build completed",
			"rows", rows,
			"duration", d,
		)
	}
}

// LogSeal logs the one-time sort.
func (l *Logger) LogSeal(ctx context.Context, rows int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "seal failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index sealed",
			"rows", rows,
			"duration", d,
		)
	}
}

// LogQuery logs an In, NotIn or range query.
func (l *Logger) LogQuery(ctx context.Context, kind string, matches uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"kind", kind,
			"matches", matches,
		)
	}
}

// LogSerialize logs conversion of an index into a blob set.
func (l *Logger) LogSerialize(ctx context.Context, blobs int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "serialize failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "serialize completed",
			"blobs", blobs,
			"bytes", bytes,
		)
	}
}

// LogLoad logs reconstruction of an index from a blob set.
func (l *Logger) LogLoad(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"rows", rows,
		)
	}
}

// LogSave logs persisting an index to a blob store.
func (l *Logger) LogSave(ctx context.Context, prefix string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index saved",
			"prefix", prefix,
			"bytes", bytes,
		)
	}
}

// LogOpen logs opening a persisted index.
func (l *Logger) LogOpen(ctx context.Context, prefix string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"prefix", prefix,
			"rows", rows,
		)
	}
}
