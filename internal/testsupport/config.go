package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"movielog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The library directory exists; the catalog and state directory do not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "movie_log.csv")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Ratings.SourceURL = "https://ratings.invalid/films/"
	cfgVal.Ratings.RequestTimeout = 5
	cfgVal.Ratings.Retries = 0

	if err := os.MkdirAll(cfgVal.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRatingsURL points the rating source at url, typically an httptest server.
func WithRatingsURL(url string) ConfigOption {
	return func(b *configBuilder) {
		if url != "" && url[len(url)-1] != '/' {
			url += "/"
		}
		b.cfg.Ratings.SourceURL = url
	}
}

// WithRatingsDisabled turns off rating lookups.
func WithRatingsDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ratings.Enabled = false
	}
}

// WithPolicy sets the reconcile policy.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconcile.Policy = policy
	}
}

// WithEncoders replaces the configured release group tags.
func WithEncoders(tags ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.Encoders = append([]string(nil), tags...)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffprobe is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
