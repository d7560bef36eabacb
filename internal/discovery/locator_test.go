package discovery

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pylocator/internal/model"
)

type stubLocator struct {
	name string
	envs []model.Environment
	err  error
}

func (s stubLocator) Name() string { return s.name }

func (s stubLocator) Find(_ context.Context, reporter Reporter) error {
	for _, env := range s.envs {
		if err := reporter.ReportEnvironment(env); err != nil {
			return err
		}
	}
	return s.err
}

func TestRunJoinsLocatorErrors(t *testing.T) {
	broken := errors.New("disk on fire")
	reporter := newRecorder()

	err := Run(context.Background(), discardLogger(), reporter,
		stubLocator{name: "good", envs: []model.Environment{
			model.NewEnvironment("", "/a/bin/python", model.KindSystem, "", "", "", nil),
		}},
		stubLocator{name: "bad", err: broken},
	)
	if !errors.Is(err, broken) {
		t.Fatalf("Run error = %v, want %v", err, broken)
	}
	if !strings.Contains(err.Error(), "bad locator") {
		t.Errorf("error %q does not name the locator", err)
	}
	if len(reporter.environments) != 1 {
		t.Errorf("good locator's report lost: %+v", reporter.environments)
	}
}

func TestRunAllLocatorsShareReporter(t *testing.T) {
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	python := touch(t, filepath.Join(bin, "python3"), "")
	pyenvRoot := filepath.Join(root, "pyenv")
	touch(t, filepath.Join(pyenvRoot, "versions", "3.12.0", "bin", "python"), "")

	reporter := newRecorder()
	err := Run(context.Background(), discardLogger(), reporter,
		NewPathLocator(bin, nil, "", nil, discardLogger()),
		NewPathLocator(bin, nil, "", nil, discardLogger()),
		NewPyenvLocator(pyenvRoot, discardLogger()),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reporter.environments) != 2 {
		t.Errorf("reported %+v, want 2 distinct environments", reporter.environments)
	}
	reporter.byExecutable(t, python)
}

func TestRunStagesManagedLocatorsClaimFirst(t *testing.T) {
	root := filepath.Join(t.TempDir(), "miniconda3")
	bin := filepath.Join(root, "bin")
	conda := touch(t, filepath.Join(bin, "conda"), "")
	python := touch(t, filepath.Join(bin, "python"), "")
	touch(t, filepath.Join(root, "conda-meta", "python-3.11.7-h955ad1f_0.json"), "{}")

	condaLocator := NewCondaLocator(conda, nil, discardLogger())
	pathLocator := NewPathLocator(bin, nil, "", nil, discardLogger())

	tests := []struct {
		name        string
		stages      [][]Locator
		wantName    string
		wantManager bool
	}{
		{"conda before path", [][]Locator{{condaLocator}, {pathLocator}}, "base", true},
		{"path before conda", [][]Locator{{pathLocator}, {condaLocator}}, "miniconda3", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reporter := newRecorder()
			if err := RunStages(context.Background(), discardLogger(), reporter, test.stages...); err != nil {
				t.Fatalf("RunStages: %v", err)
			}
			if len(reporter.environments) != 1 {
				t.Fatalf("reported %+v, want one environment", reporter.environments)
			}
			env := reporter.byExecutable(t, python)
			if env.Name != test.wantName || env.Category != model.KindConda {
				t.Errorf("got %s %q, want conda %q", env.Category, env.Name, test.wantName)
			}
			if (env.Manager != nil) != test.wantManager {
				t.Errorf("manager = %+v, want present %v", env.Manager, test.wantManager)
			}
		})
	}
}

func TestRunStagesStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reporter := newRecorder()
	err := RunStages(ctx, discardLogger(), reporter, []Locator{stubLocator{name: "first", envs: []model.Environment{
		model.NewEnvironment("", "/a/bin/python", model.KindSystem, "", "", "", nil),
	}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunStages error = %v, want context.Canceled", err)
	}
	if len(reporter.environments) != 0 {
		t.Errorf("cancelled run reported %+v", reporter.environments)
	}
}
