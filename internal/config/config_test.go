package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("level = %v, want info", cfg.Level())
	}
	if timeout, _ := cfg.Timeout(); timeout != 2*time.Second {
		t.Errorf("timeout = %v", timeout)
	}
	for _, name := range LocatorNames {
		if !cfg.LocatorEnabled(name) {
			t.Errorf("locator %q disabled by default", name)
		}
	}
}

func TestLoadJSONC(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeFile(t, "pylocator.jsonc", `{
		// scan the toolbox too
		"logLevel": "debug",
		"searchPaths": ["/opt/tools/bin",],
		"locators": ["path", "conda"], /* no pyenv here */
		"resolveVersions": true,
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "/opt/tools/bin" {
		t.Errorf("searchPaths = %v", cfg.SearchPaths)
	}
	if !cfg.ResolveVersions {
		t.Error("resolveVersions not set")
	}
	if cfg.LocatorEnabled("pyenv") || !cfg.LocatorEnabled("conda") {
		t.Errorf("locators = %v", cfg.Locators)
	}
	if cfg.VersionTimeout != "2s" {
		t.Errorf("absent versionTimeout lost its default: %q", cfg.VersionTimeout)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeFile(t, "pylocator.yaml", "logLevel: warning\npyenvRoot: /srv/pyenv\nversionTimeout: 500ms\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("level = %v", cfg.Level())
	}
	if cfg.PyenvRoot != "/srv/pyenv" {
		t.Errorf("pyenvRoot = %q", cfg.PyenvRoot)
	}
	if timeout, _ := cfg.Timeout(); timeout != 500*time.Millisecond {
		t.Errorf("timeout = %v", timeout)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "pylocator.json", `{"logLevel": "info"}`)
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("level = %v, want error from environment", cfg.Level())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"bad level", "c.json", `{"logLevel": "loud"}`, "unknown log level"},
		{"bad locator", "c.json", `{"locators": ["registry"]}`, "unknown locator"},
		{"bad timeout", "c.yml", "versionTimeout: soon\n", "invalid versionTimeout"},
		{"zero timeout", "c.json", `{"versionTimeout": "0s"}`, "must be positive"},
		{"malformed json", "c.json", `{"logLevel": }`, "parsing JSON config"},
		{"malformed yaml", "c.yaml", "logLevel: [\n", "parsing YAML config"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeFile(t, test.file, test.content))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("Load error = %v, want mention of %q", err, test.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
