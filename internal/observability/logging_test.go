package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// captureDefault routes the default slog logger into a buffer for the
// duration of the test.
func captureDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithRun(t *testing.T) {
	ctx := WithRun(context.Background(), "fence")

	lc := GetContext(ctx)
	if lc.Preprocessor != "fence" {
		t.Errorf("expected fence, got %s", lc.Preprocessor)
	}
	if _, err := uuid.Parse(lc.RunID); err != nil {
		t.Errorf("expected a UUID run id, got %q: %v", lc.RunID, err)
	}

	other := GetContext(WithRun(context.Background(), "fence"))
	if other.RunID == lc.RunID {
		t.Error("run ids must differ between runs")
	}
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithPreprocessor(ctx, "noop")
	ctx = WithStage(ctx, "apply")
	ctx = WithChapter(ctx, "guide/intro.md")

	lc := GetContext(ctx)
	if lc.RunID != "run-1" || lc.Preprocessor != "noop" || lc.Stage != "apply" || lc.Chapter != "guide/intro.md" {
		t.Errorf("values lost in chaining: %+v", lc)
	}
}

func TestOverwriteContextValue(t *testing.T) {
	ctx := WithStage(context.Background(), "materialize")
	ctx = WithStage(ctx, "apply")

	if lc := GetContext(ctx); lc.Stage != "apply" {
		t.Errorf("expected apply, got %s", lc.Stage)
	}
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	if lc != (LogContext{}) {
		t.Error("expected empty context")
	}
}

func TestHasContextValue(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithPreprocessor(ctx, "fence")

	tests := []struct {
		field    string
		expected bool
	}{
		{"run.id", true},
		{"preprocessor", true},
		{"stage", false},
		{"chapter", false},
		{"unknown", false},
	}

	for _, tt := range tests {
		if HasContextValue(ctx, tt.field) != tt.expected {
			t.Errorf("HasContextValue(%s) expected %v", tt.field, tt.expected)
		}
	}
}

func TestInfoContext(t *testing.T) {
	buf := captureDefault(t, slog.LevelInfo)

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithPreprocessor(ctx, "fence")

	InfoContext(ctx, "test message", slog.String("extra", "value"))

	output := buf.String()
	for _, want := range []string{`"run.id":"run-1"`, `"preprocessor":"fence"`, "test message", `"extra":"value"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in log output: %s", want, output)
		}
	}
}

func TestLevels(t *testing.T) {
	buf := captureDefault(t, slog.LevelWarn)
	ctx := WithStage(context.Background(), "apply")

	DebugContext(ctx, "hidden debug")
	InfoContext(ctx, "hidden info")
	WarnContext(ctx, "shown warning")
	ErrorContext(ctx, "shown error")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("messages below the level leaked: %s", output)
	}
	if !strings.Contains(output, "shown warning") || !strings.Contains(output, "shown error") {
		t.Errorf("expected warn and error output: %s", output)
	}
	if strings.Count(output, `"stage":"apply"`) != 2 {
		t.Errorf("expected stage on both records: %s", output)
	}
}
