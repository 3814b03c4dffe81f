package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the library root and the files movielog owns.
type Paths struct {
	LibraryDir  string `toml:"library_dir"`
	CatalogPath string `toml:"catalog_path"` // Default: <library_dir>/movie_log.csv
	StateDir    string `toml:"state_dir"`
}

// Scan controls library enumeration.
type Scan struct {
	Extensions []string `toml:"extensions"`
	MaxDepth   int      `toml:"max_depth"`
}

// Naming controls title/year extraction and release tag detection.
type Naming struct {
	// PrefixLength is the number of leading characters skipped before the title.
	// Zero derives it from the library directory so full paths can be parsed.
	PrefixLength int      `toml:"prefix_length"`
	Encoders     []string `toml:"encoders"`
}

// Ratings contains configuration for the rating source and matcher.
type Ratings struct {
	Enabled        bool    `toml:"enabled"`
	SourceURL      string  `toml:"source_url"`
	Threshold      float64 `toml:"threshold"`
	Algorithm      string  `toml:"algorithm"`
	RequestTimeout int     `toml:"request_timeout"`
	Retries        int     `toml:"retries"`
}

// Reconcile contains configuration for the reconciliation pass.
type Reconcile struct {
	Policy string `toml:"policy"`
}

// Probe contains configuration for the container probe.
type Probe struct {
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for movielog.
//
// Configuration sections by subsystem:
//   - Paths: library root, catalog file, and state directory
//   - Scan: file extensions and walk depth
//   - Naming: folder name prefix and release group tags
//   - Ratings: rating source URL and fuzzy matching knobs
//   - Reconcile: policy for unrecognized entries
//   - Probe: ffprobe executable
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Scan      Scan      `toml:"scan"`
	Naming    Naming    `toml:"naming"`
	Ratings   Ratings   `toml:"ratings"`
	Reconcile Reconcile `toml:"reconcile"`
	Probe     Probe     `toml:"probe"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/movielog/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := LoadUnvalidated(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// LoadUnvalidated parses and normalizes a configuration file without running
// Validate, so callers such as `config validate` can report every problem.
func LoadUnvalidated(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("movielog.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and the catalog's parent.
// The library directory is never created: a missing library is a user error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, filepath.Dir(c.Paths.CatalogPath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "movielog.lock")
}

// LogPath returns the log file location, or "" when no state directory is set.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "movielog.log")
}

// FFprobeBinary returns the ffprobe executable name used for container probing.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Probe.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return c.Probe.FFprobeBinary
}

// RequestTimeout returns the rating source HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Ratings.RequestTimeout) * time.Second
}

// NamePrefixLength returns the number of characters to skip before the title
// when parsing a full path under the library directory.
func (c *Config) NamePrefixLength() int {
	if c.Naming.PrefixLength > 0 {
		return c.Naming.PrefixLength
	}
	return len(strings.TrimRight(c.Paths.LibraryDir, string(filepath.Separator))) + 1
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is never overwritten.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config already exists at %s", path)
		}
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		file.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return file.Close()
}
