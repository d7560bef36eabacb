package messaging

import (
	"unicode/utf8"

	"pylocator/internal/model"
)

// ManagerKey identifies a manager for deduplication.
type ManagerKey string

// EnvironmentKey identifies an environment for deduplication.
type EnvironmentKey string

// KeyForManager returns the manager's executable path as its key. A
// manager whose path is empty or not valid UTF-8 has no key.
func KeyForManager(manager model.Manager) (ManagerKey, bool) {
	text, ok := pathText(manager.ExecutablePath)
	return ManagerKey(text), ok
}

// KeyForEnvironment keys an environment by its interpreter path, or by
// its environment root when the interpreter is unknown. An interpreter
// path that is present but not valid UTF-8 leaves the environment
// without a key; the root is not consulted in that case.
func KeyForEnvironment(env model.Environment) (EnvironmentKey, bool) {
	if env.PythonExecutablePath != "" {
		text, ok := pathText(env.PythonExecutablePath)
		return EnvironmentKey(text), ok
	}
	text, ok := pathText(env.EnvPath)
	return EnvironmentKey(text), ok
}

// KeyForProbe keys a discovery probe by its executable, matching the
// key KeyForEnvironment gives the environment built from it.
func KeyForProbe(probe model.PythonEnv) (EnvironmentKey, bool) {
	text, ok := pathText(probe.Executable)
	return EnvironmentKey(text), ok
}

func pathText(path string) (string, bool) {
	if path == "" || !utf8.ValidString(path) {
		return "", false
	}
	return path, true
}
