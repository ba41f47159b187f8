// Package config resolves the driver's runtime options from the mdBook
// context, .env files and the process environment.
package config

import (
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bookproc/internal/book"
	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// Options are the driver settings read from `[preprocessor.<name>]` in book.toml.
//
// Preprocessor-specific keys live in the same table; they are ignored here and
// decoded by the preprocessor itself through DecodeTable.
type Options struct {
	Workers         int       `yaml:"workers"`
	LogLevel        LogLevel  `yaml:"log-level"`
	LogFormat       LogFormat `yaml:"log-format"`
	MetricsTextfile string    `yaml:"metrics-textfile"`
	Renderers       []string  `yaml:"renderers"`
}

// Defaults returns the options used when nothing is configured.
func Defaults() Options {
	return Options{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
	}
}

// Load resolves options for the named preprocessor. Precedence, lowest first:
// defaults, the book.toml table, .env files in the book root, the process
// environment.
func Load(ctx *book.Context, name string) (Options, error) {
	opts := Defaults()
	if ctx == nil {
		return opts, errors.ConfigError("missing preprocessor context").Build()
	}

	if err := DecodeTable(ctx.PreprocessorTable(name), &opts); err != nil {
		return opts, err
	}
	if err := LoadEnvFiles(ctx.Root); err != nil {
		return opts, err
	}
	if err := applyEnv(&opts); err != nil {
		return opts, err
	}

	opts.LogLevel = NormalizeLogLevel(string(opts.LogLevel))
	opts.LogFormat = NormalizeLogFormat(string(opts.LogFormat))
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Workers < 0 {
		return errors.ConfigError("workers must not be negative").
			WithContext("workers", o.Workers).
			Build()
	}
	return nil
}

// EffectiveWorkers returns the configured worker count or GOMAXPROCS when unset.
func (o Options) EffectiveWorkers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SupportsRenderer reports whether the renderer is allowed. An empty list
// allows every renderer.
func (o Options) SupportsRenderer(renderer string) bool {
	return len(o.Renderers) == 0 || slices.Contains(o.Renderers, renderer)
}

// DecodeTable decodes a generic config table (as found in the mdBook context)
// into out, which should carry `yaml` struct tags. Unknown keys are ignored so
// several consumers can share one table. A nil table leaves out untouched.
func DecodeTable(table map[string]any, out any) error {
	if len(table) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(table)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "encode preprocessor table").Build()
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "decode preprocessor table").Build()
	}
	return nil
}
