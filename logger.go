package xdb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with xdb-specific context.
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

// WithCollection adds a collection field to the logger.
func (l *Logger) WithCollection(collection string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", collection),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, collection, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "document inserted",
			"collection", collection,
			"id", id,
		)
	}
}

// LogFind logs a find operation.
func (l *Logger) LogFind(ctx context.Context, collection string, matches int) {
	l.DebugContext(ctx, "find completed",
		"collection", collection,
		"matches", matches,
	)
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, collection, id string, found bool) {
	l.DebugContext(ctx, "update completed",
		"collection", collection,
		"id", id,
		"found", found,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, collection, id string, found bool) {
	l.DebugContext(ctx, "delete completed",
		"collection", collection,
		"id", id,
		"found", found,
	)
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, filename string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"filename", filename,
		)
	}
}

// LogDropAll logs a drop-all operation.
func (l *Logger) LogDropAll(ctx context.Context) {
	l.WarnContext(ctx, "all collections dropped")
}
