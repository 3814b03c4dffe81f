package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvRatingsURL overrides ratings.source_url when set.
const EnvRatingsURL = "MOVIELOG_RATINGS_URL"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeNaming()
	c.normalizeRatings()
	c.normalizeReconcile()
	c.normalizeLogging()
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" && c.Paths.LibraryDir != "" {
		c.Paths.CatalogPath = filepath.Join(c.Paths.LibraryDir, defaultCatalogName)
	}
	if c.Paths.CatalogPath, err = expandPath(strings.TrimSpace(c.Paths.CatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = []string{defaultExtension}
	}
	c.Scan.Extensions = exts
	if c.Scan.MaxDepth == 0 {
		c.Scan.MaxDepth = defaultMaxDepth
	}
}

func (c *Config) normalizeNaming() {
	tags := make([]string, 0, len(c.Naming.Encoders))
	for _, tag := range c.Naming.Encoders {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	c.Naming.Encoders = tags
}

func (c *Config) normalizeRatings() {
	if value, ok := os.LookupEnv(EnvRatingsURL); ok && strings.TrimSpace(value) != "" {
		c.Ratings.SourceURL = value
	}
	c.Ratings.SourceURL = strings.TrimSpace(c.Ratings.SourceURL)
	if c.Ratings.SourceURL != "" && !strings.HasSuffix(c.Ratings.SourceURL, "/") {
		c.Ratings.SourceURL += "/"
	}
	c.Ratings.Algorithm = strings.ToLower(strings.TrimSpace(c.Ratings.Algorithm))
	switch c.Ratings.Algorithm {
	case "":
		c.Ratings.Algorithm = AlgorithmRatio
	case "jarowinkler", "jaro_winkler":
		c.Ratings.Algorithm = AlgorithmJaroWinkler
	}
	if c.Ratings.RequestTimeout <= 0 {
		c.Ratings.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeReconcile() {
	c.Reconcile.Policy = strings.ToLower(strings.TrimSpace(c.Reconcile.Policy))
	if c.Reconcile.Policy == "" {
		c.Reconcile.Policy = PolicyAbort
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
