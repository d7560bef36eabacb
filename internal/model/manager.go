package model

// ManagerKind identifies the tool that manages a set of environments.
// Values are the wire spelling.
type ManagerKind string

const (
	ManagerConda ManagerKind = "conda"
	ManagerPyenv ManagerKind = "pyenv"
)

// ManagerKinds lists every supported manager kind in display order.
var ManagerKinds = []ManagerKind{ManagerConda, ManagerPyenv}

// Manager is an environment-manager tool found on the machine. Two
// managers are the same manager iff their ExecutablePath strings are equal.
type Manager struct {
	ExecutablePath string      `json:"executablePath"`
	Version        string      `json:"version,omitempty"`
	Tool           ManagerKind `json:"tool"`
}

// NewManager returns a Manager for the tool at executablePath. version
// may be empty when unknown.
func NewManager(executablePath, version string, tool ManagerKind) Manager {
	return Manager{
		ExecutablePath: executablePath,
		Version:        version,
		Tool:           tool,
	}
}
