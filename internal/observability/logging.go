package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogContext holds structured logging context information for one
// preprocessing run.
type LogContext struct {
	RunID        string
	Preprocessor string
	Stage        string
	Chapter      string
}

// contextKey is used for context values.
type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// NewRunID returns a fresh identifier for a preprocessing run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRun starts a run scope: a new run ID plus the preprocessor name.
func WithRun(ctx context.Context, preprocessor string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = NewRunID()
	lc.Preprocessor = preprocessor
	return context.WithValue(ctx, logContextKey, lc)
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPreprocessor adds a preprocessor name to the context.
func WithPreprocessor(ctx context.Context, name string) context.Context {
	lc := extractLogContext(ctx)
	lc.Preprocessor = name
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithChapter adds a chapter path to the context.
func WithChapter(ctx context.Context, chapter string) context.Context {
	lc := extractLogContext(ctx)
	lc.Chapter = chapter
	return context.WithValue(ctx, logContextKey, lc)
}

// extractLogContext retrieves or creates a LogContext from the context.
func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// getLogAttrs returns slog attributes from the context's LogContext.
func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RunID != "" {
		attrs = append(attrs, slog.String("run.id", lc.RunID))
	}
	if lc.Preprocessor != "" {
		attrs = append(attrs, slog.String("preprocessor", lc.Preprocessor))
	}
	if lc.Stage != "" {
		attrs = append(attrs, slog.String("stage", lc.Stage))
	}
	if lc.Chapter != "" {
		attrs = append(attrs, slog.String("chapter", lc.Chapter))
	}

	return attrs
}

func logAttrs(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	contextAttrs := getLogAttrs(ctx)
	slog.LogAttrs(ctx, level, msg, append(contextAttrs, attrs...)...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelDebug, msg, attrs)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// HasContextValue checks if a specific context value is set.
func HasContextValue(ctx context.Context, field string) bool {
	lc := extractLogContext(ctx)
	switch field {
	case "run.id":
		return lc.RunID != ""
	case "preprocessor":
		return lc.Preprocessor != ""
	case "stage":
		return lc.Stage != ""
	case "chapter":
		return lc.Chapter != ""
	default:
		return false
	}
}
