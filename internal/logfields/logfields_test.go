package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Preprocessor", KeyPreprocessor, "fence", Preprocessor("fence")},
		{"Chapter", KeyChapter, "guide/intro.md", Chapter("guide/intro.md")},
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Stage", KeyStage, "apply", Stage("apply")},
		{"Renderer", KeyRenderer, "html", Renderer("html")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Version", KeyVersion, "0.4.40", Version("0.4.40")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Workers(4); v.Key != KeyWorkers || v.Value.Int64() != 4 {
		t.Fatalf("Workers mismatch: %v", v)
	}
	if v := Chapters(10); v.Key != KeyChapters {
		t.Fatalf("Chapters key mismatch: %s", v.Key)
	}
	if v := Replacements(3); v.Key != KeyReplacements {
		t.Fatalf("Replacements key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
