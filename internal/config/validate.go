package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateRatings(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.MaxDepth < 1 {
		return errors.New("scan.max_depth must be positive")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateNaming() error {
	if c.Naming.PrefixLength < 0 {
		return errors.New("naming.prefix_length must be >= 0")
	}
	return nil
}

func (c *Config) validateRatings() error {
	if c.Ratings.Threshold < 0 || c.Ratings.Threshold > 1 {
		return errors.New("ratings.threshold must be between 0 and 1")
	}
	switch c.Ratings.Algorithm {
	case AlgorithmRatio, AlgorithmJaroWinkler:
	default:
		return fmt.Errorf("ratings.algorithm must be %q or %q, got %q", AlgorithmRatio, AlgorithmJaroWinkler, c.Ratings.Algorithm)
	}
	if c.Ratings.Retries < 0 {
		return errors.New("ratings.retries must be >= 0")
	}
	if !c.Ratings.Enabled {
		return nil
	}
	if c.Ratings.SourceURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/movielog/config.toml"
		}
		return fmt.Errorf("ratings.source_url is required when ratings are enabled. Set %s or edit %s (create with 'movielog config init')", EnvRatingsURL, defaultPath)
	}
	parsed, err := url.Parse(c.Ratings.SourceURL)
	if err != nil {
		return fmt.Errorf("ratings.source_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("ratings.source_url must use http or https, got %q", c.Ratings.SourceURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("ratings.source_url must include a host, got %q", c.Ratings.SourceURL)
	}
	return nil
}

func (c *Config) validateReconcile() error {
	switch c.Reconcile.Policy {
	case PolicyAbort, PolicyMark:
		return nil
	default:
		return fmt.Errorf("reconcile.policy must be %q or %q, got %q", PolicyAbort, PolicyMark, c.Reconcile.Policy)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
