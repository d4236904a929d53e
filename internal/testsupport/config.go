// Package testsupport provides shared helpers for package tests: temp-dir
// seeded configs and stub transcriber executables that honor the external
// CLI contract.
package testsupport

import (
	"path/filepath"
	"testing"

	"scribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Workflow.TickIntervalMS = 100

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSizeDetection disables the completion marker so tests exercise the
// output-size detection path.
func WithSizeDetection() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcriber.UseCompletionMarker = false
	}
}

// WithProgressFile enables the progress artifact.
func WithProgressFile() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcriber.EnableProgressFile = true
	}
}
