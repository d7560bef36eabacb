// Package config loads pylocator settings from an optional JSONC or
// YAML file, then applies environment overrides. Command-line flags are
// applied last by main.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "PYLOCATOR_CONFIG"
	EnvLogLevel   = "PYLOCATOR_LOG_LEVEL"
)

// Locator names accepted in Config.Locators.
var LocatorNames = []string{"path", "conda", "pyenv", "workon"}

// Config is the full set of tunables.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// SearchPaths are scanned for interpreters in addition to PATH.
	SearchPaths []string `json:"searchPaths,omitempty" yaml:"searchPaths,omitempty"`

	// CondaExecutable overrides looking up conda on PATH.
	CondaExecutable string `json:"condaExecutable,omitempty" yaml:"condaExecutable,omitempty"`

	// PyenvRoot overrides PYENV_ROOT and ~/.pyenv.
	PyenvRoot string `json:"pyenvRoot,omitempty" yaml:"pyenvRoot,omitempty"`

	// WorkonHome overrides WORKON_HOME and ~/.virtualenvs.
	WorkonHome string `json:"workonHome,omitempty" yaml:"workonHome,omitempty"`

	// Locators restricts discovery to the named locators. Empty means all.
	Locators []string `json:"locators,omitempty" yaml:"locators,omitempty"`

	// ResolveVersions runs interpreters with --version when no metadata
	// file records their version.
	ResolveVersions bool `json:"resolveVersions" yaml:"resolveVersions"`

	// VersionTimeout bounds each --version run, as a Go duration string.
	VersionTimeout string `json:"versionTimeout" yaml:"versionTimeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:       "info",
		VersionTimeout: "2s",
	}
}

// Load reads path (if non-empty, else $PYLOCATOR_CONFIG if set) over
// the defaults, applies environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := Parse(data, filepath.Ext(path), &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data into cfg. ext selects the format: ".yaml" and
// ".yml" are YAML, anything else is JSON with comments and trailing
// commas allowed. Fields absent from data keep their current values.
func Parse(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	}
	return nil
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, name := range c.Locators {
		if !slices.Contains(LocatorNames, name) {
			return fmt.Errorf("unknown locator %q (valid: %s)", name, strings.Join(LocatorNames, ", "))
		}
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// Timeout returns the parsed VersionTimeout.
func (c Config) Timeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.VersionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid versionTimeout %q: %w", c.VersionTimeout, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("versionTimeout must be positive, got %s", timeout)
	}
	return timeout, nil
}

// LocatorEnabled reports whether the named locator should run.
func (c Config) LocatorEnabled(name string) bool {
	return len(c.Locators) == 0 || slices.Contains(c.Locators, name)
}

// ParseLevel maps a level name to a slog.Level. "warning" is accepted
// as an alias of "warn" because that is how log envelopes spell it.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
