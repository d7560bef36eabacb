package discovery

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// PyvenvCfgName is the marker file every venv and virtualenv writes at
// its root.
const PyvenvCfgName = "pyvenv.cfg"

var (
	cfgLine        = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+)\s*=\s*(.*?)\s*$`)
	leadingRelease = regexp.MustCompile(`^\d+(\.\d+){0,2}`)
	installRelease = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)
)

// PyvenvCfg holds the key = value pairs of a pyvenv.cfg file. Keys are
// lower-cased.
type PyvenvCfg struct {
	Values map[string]string
}

// ParsePyvenvCfg reads key = value lines. Lines that do not look like
// an assignment are ignored, as Python's site module does.
func ParsePyvenvCfg(r io.Reader) (PyvenvCfg, error) {
	cfg := PyvenvCfg{Values: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := cfgLine.FindStringSubmatch(scanner.Text())
		if len(matches) != 3 {
			continue
		}
		cfg.Values[strings.ToLower(matches[1])] = matches[2]
	}
	if err := scanner.Err(); err != nil {
		return PyvenvCfg{}, fmt.Errorf("reading %s: %w", PyvenvCfgName, err)
	}
	return cfg, nil
}

// ReadPyvenvCfg parses the file at path.
func ReadPyvenvCfg(path string) (PyvenvCfg, error) {
	file, err := os.Open(path)
	if err != nil {
		return PyvenvCfg{}, err
	}
	defer file.Close()
	return ParsePyvenvCfg(file)
}

// Version returns the interpreter release recorded by venv ("version")
// or virtualenv/uv ("version_info", e.g. 3.11.4.final.0 → 3.11.4).
func (c PyvenvCfg) Version() string {
	for _, key := range []string{"version", "version_info"} {
		if release := leadingRelease.FindString(c.Values[key]); release != "" {
			return release
		}
	}
	return ""
}

// IsVirtualEnv reports whether the environment was created by the
// virtualenv package rather than the stdlib venv module.
func (c PyvenvCfg) IsVirtualEnv() bool {
	_, ok := c.Values["virtualenv"]
	return ok
}

// Home is the directory of the base interpreter.
func (c PyvenvCfg) Home() string {
	return c.Values["home"]
}

// Release is Version, or failing that the release named by the base
// interpreter's install directory, as in <root>/versions/3.11.4/bin.
func (c PyvenvCfg) Release() string {
	if version := c.Version(); version != "" {
		return version
	}
	home := c.Home()
	if home == "" {
		return ""
	}
	return installRelease.FindString(filepath.Base(filepath.Dir(filepath.Clean(home))))
}
