package discovery

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// versionOutput matches "Python 3.12.4" as printed by --version. Python 2
// prints it on stderr, so both streams are read.
var versionOutput = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?(?:[a-z]+\d+)?)`)

// VersionResolver asks an interpreter for its version by running it.
// It is only used when no metadata file records the version.
type VersionResolver struct {
	timeout time.Duration
}

// NewVersionResolver returns a resolver that gives each interpreter at
// most timeout to answer.
func NewVersionResolver(timeout time.Duration) *VersionResolver {
	return &VersionResolver{timeout: timeout}
}

// Version runs executable --version.
func (r *VersionResolver) Version(ctx context.Context, executable string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, executable, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", executable, err)
	}
	version := ParseVersionOutput(string(output))
	if version == "" {
		return "", fmt.Errorf("unrecognised version output from %s: %q", executable, output)
	}
	return version, nil
}

// ParseVersionOutput extracts the release from --version output, or
// returns "".
func ParseVersionOutput(output string) string {
	matches := versionOutput.FindStringSubmatch(output)
	if len(matches) != 2 {
		return ""
	}
	return matches[1]
}
