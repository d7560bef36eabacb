package model

// EnvironmentKind is the mutually exclusive category of a Python
// environment. Values are the wire spelling.
type EnvironmentKind string

const (
	KindSystem            EnvironmentKind = "system"
	KindHomebrew          EnvironmentKind = "homebrew"
	KindConda             EnvironmentKind = "conda"
	KindPyenv             EnvironmentKind = "pyenv"
	KindPyenvVirtualEnv   EnvironmentKind = "pyenvVirtualEnv"
	KindWindowsStore      EnvironmentKind = "windowsStore"
	KindWindowsRegistry   EnvironmentKind = "windowsRegistry"
	KindPipenv            EnvironmentKind = "pipenv"
	KindVirtualEnvWrapper EnvironmentKind = "virtualEnvWrapper"
	KindVenv              EnvironmentKind = "venv"
	KindVirtualEnv        EnvironmentKind = "virtualEnv"
)

// EnvironmentKinds lists every environment kind in display order.
var EnvironmentKinds = []EnvironmentKind{
	KindSystem,
	KindHomebrew,
	KindConda,
	KindPyenv,
	KindPyenvVirtualEnv,
	KindWindowsStore,
	KindWindowsRegistry,
	KindPipenv,
	KindVirtualEnvWrapper,
	KindVenv,
	KindVirtualEnv,
}

// Environment is a discovered Python environment. Empty strings and nil
// slices mean "not known" and are omitted on the wire.
//
// Manager, when set, points at a copy owned by this Environment; use
// WithManager rather than sharing a pointer between environments.
type Environment struct {
	Name                 string          `json:"name,omitempty"`
	PythonExecutablePath string          `json:"pythonExecutablePath,omitempty"`
	Category             EnvironmentKind `json:"category"`
	Version              string          `json:"version,omitempty"`
	EnvPath              string          `json:"envPath,omitempty"`
	SysPrefixPath        string          `json:"sysPrefixPath,omitempty"`
	Manager              *Manager        `json:"envManager,omitempty"`
	PythonRunCommand     []string        `json:"pythonRunCommand,omitempty"`

	// ProjectPath is only meaningful for Pipenv environments.
	ProjectPath string `json:"projectPath,omitempty"`
}

// NewEnvironment builds an Environment of the given kind. ProjectPath is
// left empty; use NewPipenvEnvironment for Pipenv environments.
func NewEnvironment(name, executable string, kind EnvironmentKind, version, envPath, sysPrefix string, runCommand []string) Environment {
	return Environment{
		Name:                 name,
		PythonExecutablePath: executable,
		Category:             kind,
		Version:              version,
		EnvPath:              envPath,
		SysPrefixPath:        sysPrefix,
		PythonRunCommand:     runCommand,
	}
}

// NewPipenvEnvironment builds a Pipenv environment bound to projectPath.
// The run command is the interpreter itself when it is known.
func NewPipenvEnvironment(executable, version, envPath, sysPrefix, projectPath string) Environment {
	env := Environment{
		PythonExecutablePath: executable,
		Category:             KindPipenv,
		Version:              version,
		EnvPath:              envPath,
		SysPrefixPath:        sysPrefix,
		ProjectPath:          projectPath,
	}
	if executable != "" {
		env.PythonRunCommand = []string{executable}
	}
	return env
}

// WithManager returns a copy of env owning its own copy of manager.
func (env Environment) WithManager(manager Manager) Environment {
	env.Manager = &manager
	return env
}

// PythonEnv is what a locator knows about an interpreter before it has
// collected any metadata. It is cheap to build and is used to ask
// whether the interpreter was already reported.
type PythonEnv struct {
	Executable string
	Path       string
}
