package messaging

import (
	"testing"

	"pylocator/internal/model"
)

func TestKeyForManager(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantKey ManagerKey
		wantOK  bool
	}{
		{"absolute path", "/usr/bin/conda", "/usr/bin/conda", true},
		{"windows path", `C:\Users\me\miniconda3\Scripts\conda.exe`, `C:\Users\me\miniconda3\Scripts\conda.exe`, true},
		{"empty", "", "", false},
		{"invalid utf8", "/opt/\xff\xfe/conda", "", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, ok := KeyForManager(model.NewManager(test.path, "1.0", model.ManagerConda))
			if key != test.wantKey || ok != test.wantOK {
				t.Errorf("KeyForManager(%q) = %q, %v; want %q, %v", test.path, key, ok, test.wantKey, test.wantOK)
			}
		})
	}
}

func TestKeyForEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		executable string
		envPath    string
		wantKey    EnvironmentKey
		wantOK     bool
	}{
		{"executable wins", "/e/bin/python", "/e", "/e/bin/python", true},
		{"falls back to root", "", "/e", "/e", true},
		{"neither", "", "", "", false},
		{"invalid executable does not fall back", "/e/bin/\xffpython", "/e", "", false},
		{"invalid root", "", "/\xff", "", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := model.Environment{
				PythonExecutablePath: test.executable,
				EnvPath:              test.envPath,
				Category:             model.KindVenv,
			}
			key, ok := KeyForEnvironment(env)
			if key != test.wantKey || ok != test.wantOK {
				t.Errorf("KeyForEnvironment = %q, %v; want %q, %v", key, ok, test.wantKey, test.wantOK)
			}
		})
	}
}

func TestKeyForProbeMatchesEnvironment(t *testing.T) {
	probe := model.PythonEnv{Executable: "/usr/bin/python3", Path: "/usr"}
	env := model.NewEnvironment("", "/usr/bin/python3", model.KindSystem, "", "/usr", "", nil)

	probeKey, probeOK := KeyForProbe(probe)
	envKey, envOK := KeyForEnvironment(env)
	if !probeOK || !envOK || probeKey != envKey {
		t.Errorf("probe key %q (%v) differs from environment key %q (%v)", probeKey, probeOK, envKey, envOK)
	}
}
