package discovery

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"Python 3.12.4\n", "3.12.4"},
		{"Python 2.7.18\n", "2.7.18"},
		{"Python 3.13.0rc2\n", "3.13.0rc2"},
		{"Python 3.10\n", "3.10"},
		{"pyenv: python3.9: command not found\n", ""},
		{"", ""},
	}
	for _, test := range tests {
		if got := ParseVersionOutput(test.output); got != test.want {
			t.Errorf("ParseVersionOutput(%q) = %q, want %q", test.output, got, test.want)
		}
	}
}

func TestVersionResolverRunsInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter stand-in needs a POSIX shell")
	}
	python := touch(t, filepath.Join(t.TempDir(), "bin", "python3"), "#!/bin/sh\necho 'Python 3.12.4' >&2\n")

	version, err := NewVersionResolver(5*time.Second).Version(context.Background(), python)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "3.12.4" {
		t.Errorf("Version = %q, want 3.12.4", version)
	}
}

func TestVersionResolverMissingInterpreter(t *testing.T) {
	_, err := NewVersionResolver(time.Second).Version(context.Background(), filepath.Join(t.TempDir(), "python"))
	if err == nil {
		t.Error("Version of missing interpreter succeeded")
	}
}
