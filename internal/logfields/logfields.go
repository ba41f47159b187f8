package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPreprocessor = "preprocessor"
	KeyChapter      = "chapter"
	KeyRunID        = "run_id"
	KeyStage        = "stage"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
	KeyRenderer     = "renderer"
	KeyPath         = "path"
	KeyWorkers      = "workers"
	KeyChapters     = "chapters"
	KeyReplacements = "replacements"
	KeyVersion      = "version"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Preprocessor(name string) slog.Attr { return slog.String(KeyPreprocessor, name) }
func Chapter(path string) slog.Attr      { return slog.String(KeyChapter, path) }
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Renderer(r string) slog.Attr        { return slog.String(KeyRenderer, r) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Workers(n int) slog.Attr            { return slog.Int(KeyWorkers, n) }
func Chapters(n int) slog.Attr           { return slog.Int(KeyChapters, n) }
func Replacements(n int) slog.Attr       { return slog.Int(KeyReplacements, n) }
func Version(v string) slog.Attr         { return slog.String(KeyVersion, v) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
