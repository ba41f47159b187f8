package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// unsetEnv clears key for the test and restores its previous value afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvWorkers, EnvLogLevel, EnvLogFormat, EnvMetricsTextfile} {
		unsetEnv(t, key)
	}
}

func contextWith(root string, table map[string]any) *book.Context {
	return &book.Context{
		Root: root,
		Config: map[string]any{
			"preprocessor": map[string]any{"fence": table},
		},
		Renderer: "html",
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	opts, err := Load(contextWith(t.TempDir(), nil), "fence")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), opts)
	assert.Equal(t, runtime.GOMAXPROCS(0), opts.EffectiveWorkers())
	assert.True(t, opts.SupportsRenderer("anything"))
}

func TestLoad_FromTable(t *testing.T) {
	clearEnv(t)

	opts, err := Load(contextWith(t.TempDir(), map[string]any{
		"workers":   float64(3),
		"log-level": "DEBUG",
		"renderers": []any{"html"},
		"language":  "mermaid", // plugin-specific, ignored here
	}), "fence")
	require.NoError(t, err)

	assert.Equal(t, 3, opts.EffectiveWorkers())
	assert.Equal(t, LogLevelDebug, opts.LogLevel)
	assert.Equal(t, slog.LevelDebug, opts.LogLevel.Slog())
	assert.True(t, opts.SupportsRenderer("html"))
	assert.False(t, opts.SupportsRenderer("pdf"))
}

func TestLoad_EnvOverridesTable(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvMetricsTextfile, "/tmp/bookproc.prom")

	opts, err := Load(contextWith(t.TempDir(), map[string]any{"workers": 2}), "fence")
	require.NoError(t, err)
	assert.Equal(t, 7, opts.Workers)
	assert.Equal(t, LogFormatJSON, opts.LogFormat)
	assert.Equal(t, "/tmp/bookproc.prom", opts.MetricsTextfile)
}

func TestLoad_DotEnvInBookRoot(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("BOOKPROC_WORKERS=5\nBOOKPROC_LOG_LEVEL=warn\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.local"), []byte("BOOKPROC_WORKERS=9\n"), 0o600))
	// godotenv sets these for the rest of the process; make sure they are cleaned up.
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvWorkers)
		_ = os.Unsetenv(EnvLogLevel)
	})

	opts, err := Load(contextWith(root, nil), "fence")
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Workers, ".env is loaded first and is not overridden")
	assert.Equal(t, LogLevelWarn, opts.LogLevel)
}

func TestLoad_ProcessEnvBeatsDotEnv(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("BOOKPROC_WORKERS=5\n"), 0o600))
	t.Setenv(EnvWorkers, "2")

	opts, err := Load(contextWith(root, nil), "fence")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := Load(contextWith(t.TempDir(), map[string]any{"workers": -1}), "fence")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	t.Setenv(EnvWorkers, "many")
	_, err = Load(contextWith(t.TempDir(), nil), "fence")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = Load(nil, "fence")
	require.Error(t, err)
}

func TestDecodeTable_PluginOptions(t *testing.T) {
	type fenceOptions struct {
		Language string `yaml:"language"`
		Class    string `yaml:"class"`
	}

	opts := fenceOptions{Language: "fence", Class: "default"}
	require.NoError(t, DecodeTable(map[string]any{"language": "mermaid", "workers": 4}, &opts))
	assert.Equal(t, fenceOptions{Language: "mermaid", Class: "default"}, opts)

	require.NoError(t, DecodeTable(nil, &opts))
	assert.Equal(t, "mermaid", opts.Language)

	err := DecodeTable(map[string]any{"language": []any{"a", "b"}}, &opts)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNormalizeLogSettings(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
	assert.Equal(t, slog.LevelError, LogLevelError.Slog())
}
