package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// Environment variables overriding book.toml settings.
const (
	EnvWorkers         = "BOOKPROC_WORKERS"
	EnvLogLevel        = "BOOKPROC_LOG_LEVEL"
	EnvLogFormat       = "BOOKPROC_LOG_FORMAT"
	EnvMetricsTextfile = "BOOKPROC_METRICS_TEXTFILE"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env and .env.local from dir when present.
// Variables already set in the process environment are not overwritten,
// so the first file to define a key wins over later ones.
func LoadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "load env file").
				WithContext("path", path).
				Build()
		}
	}
	return nil
}

func applyEnv(o *Options) error {
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid worker count").
				WithContext("env", EnvWorkers).
				WithContext("value", v).
				Build()
		}
		o.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		o.LogLevel = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		o.LogFormat = LogFormat(v)
	}
	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		o.MetricsTextfile = v
	}
	return nil
}
