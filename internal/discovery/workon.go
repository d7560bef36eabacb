package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"pylocator/internal/model"
)

// WorkonLocator reports virtualenvwrapper environments.
type WorkonLocator struct {
	home   string
	logger *slog.Logger
}

// NewWorkonLocator uses home when set, else $WORKON_HOME, else
// ~/.virtualenvs.
func NewWorkonLocator(home string, logger *slog.Logger) *WorkonLocator {
	return &WorkonLocator{home: home, logger: logger}
}

func (l *WorkonLocator) Name() string { return "workon" }

// Home is the directory the locator scans.
func (l *WorkonLocator) Home() string {
	home := firstNonEmpty(l.home, os.Getenv("WORKON_HOME"))
	if home == "" {
		if user := homeDir(); user != "" {
			home = filepath.Join(user, ".virtualenvs")
		}
	}
	return home
}

func (l *WorkonLocator) Find(ctx context.Context, reporter Reporter) error {
	home := l.Home()
	entries, err := os.ReadDir(home)
	if home == "" || err != nil {
		l.logger.Debug("no virtualenvwrapper home", "dir", home)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() {
			continue
		}
		prefix := filepath.Join(home, entry.Name())
		cfg, err := ReadPyvenvCfg(filepath.Join(prefix, PyvenvCfgName))
		if err != nil {
			continue
		}
		python := interpreterIn(prefix)
		if python == "" || reporter.WasEnvironmentReported(model.PythonEnv{Executable: python, Path: prefix}) {
			continue
		}
		env := model.NewEnvironment(entry.Name(), python, model.KindVirtualEnvWrapper, cfg.Version(), prefix, prefix, []string{python})
		if err := reporter.ReportEnvironment(env); err != nil {
			return err
		}
	}
	return nil
}
