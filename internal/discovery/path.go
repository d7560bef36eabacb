package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pylocator/internal/model"
)

// DefaultHomebrewPrefixes are the roots Homebrew installs under.
var DefaultHomebrewPrefixes = []string{
	"/opt/homebrew",
	"/usr/local/Cellar",
	"/usr/local/opt",
	"/home/linuxbrew/.linuxbrew",
}

// PathLocator scans directories (normally PATH plus configured extras)
// for interpreters and classifies each by the files around it.
type PathLocator struct {
	dirs             []string
	workonHome       string
	homebrewPrefixes []string
	versions         *VersionResolver
	logger           *slog.Logger
}

// NewPathLocator scans the entries of pathList (in os.PathListSeparator
// form, as in $PATH) followed by extra. workonHome, when set, marks
// environments under it as virtualenvwrapper environments. versions may
// be nil to skip running interpreters.
func NewPathLocator(pathList string, extra []string, workonHome string, versions *VersionResolver, logger *slog.Logger) *PathLocator {
	return &PathLocator{
		dirs:             append(filepath.SplitList(pathList), extra...),
		workonHome:       workonHome,
		homebrewPrefixes: DefaultHomebrewPrefixes,
		versions:         versions,
		logger:           logger,
	}
}

func (l *PathLocator) Name() string { return "path" }

func (l *PathLocator) Find(ctx context.Context, reporter Reporter) error {
	scanned := make(map[string]bool)
	resolved := make(map[string]string) // real path -> first name seen

	for _, dir := range l.dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir = filepath.Clean(dir)
		if dir == "." || scanned[dir] {
			continue
		}
		scanned[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			l.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !pythonBinary.MatchString(entry.Name()) {
				continue
			}
			executable := filepath.Join(dir, entry.Name())

			if real, err := filepath.EvalSymlinks(executable); err == nil {
				if first, ok := resolved[real]; ok {
					l.logger.Debug("skipping interpreter alias", "path", executable, "alias_of", first)
					continue
				}
				resolved[real] = executable
			}

			if reporter.WasEnvironmentReported(model.PythonEnv{Executable: executable}) {
				continue
			}
			if err := reporter.ReportEnvironment(l.classify(ctx, executable)); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify decides the environment kind from the layout around an
// interpreter living in <prefix>/bin or <prefix>/Scripts.
func (l *PathLocator) classify(ctx context.Context, executable string) model.Environment {
	prefix := filepath.Dir(filepath.Dir(executable))
	runCommand := []string{executable}

	if cfg, err := ReadPyvenvCfg(filepath.Join(prefix, PyvenvCfgName)); err == nil {
		version := l.versionOf(ctx, executable, cfg.Release())
		if project := readProjectFile(prefix); project != "" {
			return model.NewPipenvEnvironment(executable, version, prefix, prefix, project)
		}
		kind := model.KindVenv
		switch {
		case l.workonHome != "" && filepath.Dir(prefix) == filepath.Clean(l.workonHome):
			kind = model.KindVirtualEnvWrapper
		case cfg.IsVirtualEnv():
			kind = model.KindVirtualEnv
		}
		return model.NewEnvironment(filepath.Base(prefix), executable, kind, version, prefix, prefix, runCommand)
	}

	if isDir(filepath.Join(prefix, "conda-meta")) {
		version := l.versionOf(ctx, executable, condaPythonVersion(prefix))
		return model.NewEnvironment(filepath.Base(prefix), executable, model.KindConda, version, prefix, prefix, runCommand)
	}

	kind := model.KindSystem
	for _, brew := range l.homebrewPrefixes {
		if strings.HasPrefix(executable, brew+string(filepath.Separator)) {
			kind = model.KindHomebrew
			break
		}
	}
	return model.NewEnvironment("", executable, kind, l.versionOf(ctx, executable, ""), "", prefix, runCommand)
}

// versionOf returns known, or asks the interpreter when known is empty
// and version probing is enabled.
func (l *PathLocator) versionOf(ctx context.Context, executable, known string) string {
	if known != "" || l.versions == nil {
		return known
	}
	version, err := l.versions.Version(ctx, executable)
	if err != nil {
		l.logger.Debug("could not determine interpreter version", "path", executable, "error", err)
		return ""
	}
	return version
}

// readProjectFile returns the project directory recorded by pipenv in
// <prefix>/.project, or "".
func readProjectFile(prefix string) string {
	data, err := os.ReadFile(filepath.Join(prefix, ".project"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
