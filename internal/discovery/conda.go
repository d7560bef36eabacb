package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"pylocator/internal/model"
)

// condaMetaPackage matches conda-meta records such as
// python-3.11.5-h955ad1f_0.json and captures the package version.
var condaMetaPackage = regexp.MustCompile(`^([a-z0-9_.-]+?)-(\d+\.\d+(?:\.\d+)?)-[^-]+\.json$`)

// CondaLocator reports the conda installation and every environment it
// owns.
type CondaLocator struct {
	executable string
	pathDirs   []string
	logger     *slog.Logger
}

// NewCondaLocator uses executable when set, otherwise looks conda up
// in pathDirs.
func NewCondaLocator(executable string, pathDirs []string, logger *slog.Logger) *CondaLocator {
	return &CondaLocator{executable: executable, pathDirs: pathDirs, logger: logger}
}

func (l *CondaLocator) Name() string { return "conda" }

func (l *CondaLocator) Find(ctx context.Context, reporter Reporter) error {
	executable := l.executable
	if executable == "" {
		executable = lookPath("conda", l.pathDirs)
	}
	if executable == "" {
		l.logger.Debug("conda not found")
		return nil
	}

	// conda lives in <root>/bin, <root>/condabin or <root>/Scripts.
	root := filepath.Dir(filepath.Dir(executable))
	manager := model.NewManager(executable, condaPackageVersion(root, "conda"), model.ManagerConda)
	if err := reporter.ReportManager(manager); err != nil {
		return err
	}

	prefixes := []string{root}
	if entries, err := os.ReadDir(filepath.Join(root, "envs")); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				prefixes = append(prefixes, filepath.Join(root, "envs", entry.Name()))
			}
		}
	}

	for _, prefix := range prefixes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isDir(filepath.Join(prefix, "conda-meta")) {
			continue
		}

		name := filepath.Base(prefix)
		if prefix == root {
			name = "base"
		}
		python := interpreterIn(prefix)
		if python != "" && reporter.WasEnvironmentReported(model.PythonEnv{Executable: python, Path: prefix}) {
			continue
		}

		// Environments without python still get reported, keyed by prefix.
		env := model.NewEnvironment(name, python, model.KindConda, condaPythonVersion(prefix), prefix, prefix,
			[]string{executable, "run", "-p", prefix, "python"}).WithManager(manager)
		if err := reporter.ReportEnvironment(env); err != nil {
			return err
		}
	}
	return nil
}

// condaPythonVersion returns the python package version installed in a
// conda prefix.
func condaPythonVersion(prefix string) string {
	return condaPackageVersion(prefix, "python")
}

// condaPackageVersion reads the version of pkg from the conda-meta
// records of prefix, or returns "".
func condaPackageVersion(prefix, pkg string) string {
	entries, err := os.ReadDir(filepath.Join(prefix, "conda-meta"))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		matches := condaMetaPackage.FindStringSubmatch(entry.Name())
		if len(matches) == 3 && matches[1] == pkg {
			return matches[2]
		}
	}
	return ""
}
