package discovery

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
)

// pythonBinary matches interpreter names such as python, python3 and
// python3.12, with an optional .exe suffix. It rejects python3-config
// and similar helpers.
var pythonBinary = regexp.MustCompile(`^python(\d+(\.\d+)?)?(\.exe)?$`)

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// interpreterIn returns the interpreter of the environment rooted at
// prefix, or "" if none of the usual layouts has one.
func interpreterIn(prefix string) string {
	candidates := []string{
		filepath.Join(prefix, "bin", "python"),
		filepath.Join(prefix, "bin", "python3"),
	}
	if runtime.GOOS == "windows" {
		candidates = append([]string{
			filepath.Join(prefix, "Scripts", "python.exe"),
			filepath.Join(prefix, "python.exe"),
		}, candidates...)
	}
	for _, candidate := range candidates {
		if isFile(candidate) {
			return candidate
		}
	}
	return ""
}

// lookPath finds name in dirs the way a shell would, without consulting
// the process PATH.
func lookPath(name string, dirs []string) string {
	names := []string{name}
	if runtime.GOOS == "windows" {
		names = []string{name + ".exe", name + ".bat", name}
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, candidate := range names {
			path := filepath.Join(dir, candidate)
			if isFile(path) {
				return path
			}
		}
	}
	return ""
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// firstNonEmpty returns the first argument that is not "".
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
