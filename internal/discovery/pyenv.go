package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"pylocator/internal/model"
)

var pyenvRelease = regexp.MustCompile(`^\d+\.\d+(\.\d+)?`)

// PyenvLocator reports pyenv and the interpreters under its versions
// directory.
type PyenvLocator struct {
	root   string
	logger *slog.Logger
}

// NewPyenvLocator uses root when set, else $PYENV_ROOT, else ~/.pyenv.
func NewPyenvLocator(root string, logger *slog.Logger) *PyenvLocator {
	return &PyenvLocator{root: root, logger: logger}
}

func (l *PyenvLocator) Name() string { return "pyenv" }

func (l *PyenvLocator) Find(ctx context.Context, reporter Reporter) error {
	root := firstNonEmpty(l.root, os.Getenv("PYENV_ROOT"))
	if root == "" {
		if home := homeDir(); home != "" {
			root = filepath.Join(home, ".pyenv")
		}
	}
	versionsDir := filepath.Join(root, "versions")
	entries, err := os.ReadDir(versionsDir)
	if root == "" || err != nil {
		l.logger.Debug("pyenv not found", "root", root)
		return nil
	}

	var manager *model.Manager
	if executable := pyenvExecutable(root); executable != "" {
		found := model.NewManager(executable, "", model.ManagerPyenv)
		manager = &found
		if err := reporter.ReportManager(found); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() {
			continue
		}
		prefix := filepath.Join(versionsDir, entry.Name())
		python := interpreterIn(prefix)
		if python == "" || reporter.WasEnvironmentReported(model.PythonEnv{Executable: python, Path: prefix}) {
			continue
		}

		env := pyenvEnvironment(entry.Name(), prefix, python)
		if manager != nil {
			env = env.WithManager(*manager)
		}
		if err := reporter.ReportEnvironment(env); err != nil {
			return err
		}
	}
	return nil
}

// pyenvEnvironment classifies one directory under versions/. Entries
// created by pyenv-virtualenv carry a pyvenv.cfg; conda distributions
// installed through pyenv carry conda-meta.
func pyenvEnvironment(name, prefix, python string) model.Environment {
	runCommand := []string{python}
	if cfg, err := ReadPyvenvCfg(filepath.Join(prefix, PyvenvCfgName)); err == nil {
		return model.NewEnvironment(name, python, model.KindPyenvVirtualEnv, cfg.Release(), prefix, prefix, runCommand)
	}
	if isDir(filepath.Join(prefix, "conda-meta")) {
		return model.NewEnvironment(name, python, model.KindConda, condaPythonVersion(prefix), prefix, prefix, runCommand)
	}
	return model.NewEnvironment(name, python, model.KindPyenv, pyenvRelease.FindString(name), prefix, prefix, runCommand)
}

func pyenvExecutable(root string) string {
	names := []string{"pyenv"}
	if runtime.GOOS == "windows" {
		names = []string{"pyenv.bat", "pyenv"}
	}
	for _, name := range names {
		path := filepath.Join(root, "bin", name)
		if isFile(path) {
			return path
		}
	}
	return ""
}
