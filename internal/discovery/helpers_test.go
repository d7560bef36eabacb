package discovery

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pylocator/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder is a Reporter that keeps everything it is given and
// deduplicates environments by executable, like the real dispatcher.
type recorder struct {
	mu           sync.Mutex
	managers     []model.Manager
	environments []model.Environment
	seen         map[string]bool
}

func newRecorder() *recorder {
	return &recorder{seen: make(map[string]bool)}
}

func (r *recorder) WasEnvironmentReported(probe model.PythonEnv) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[probe.Executable]
}

func (r *recorder) ReportManager(manager model.Manager) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers = append(r.managers, manager)
	return nil
}

func (r *recorder) ReportEnvironment(env model.Environment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := firstNonEmpty(env.PythonExecutablePath, env.EnvPath)
	if r.seen[key] {
		return nil
	}
	r.seen[key] = true
	r.environments = append(r.environments, env)
	return nil
}

func (r *recorder) byExecutable(t *testing.T, executable string) model.Environment {
	t.Helper()
	for _, env := range r.environments {
		if env.PythonExecutablePath == executable {
			return env
		}
	}
	t.Fatalf("no environment reported for %s; got %+v", executable, r.environments)
	return model.Environment{}
}

// touch creates path (and its parents) with content.
func touch(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func mkdir(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
