// Package discovery finds Python interpreters and the tools that manage
// them, and hands what it finds to a Reporter.
//
// Each Locator covers one source (PATH, conda, pyenv, virtualenvwrapper).
// Run starts every locator in its own goroutine against one shared
// Reporter, so the Reporter must be safe for concurrent use.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pylocator/internal/model"
)

// Reporter receives discovery results. Locators call
// WasEnvironmentReported before collecting metadata for an interpreter
// so that work is skipped for anything already sent.
type Reporter interface {
	WasEnvironmentReported(probe model.PythonEnv) bool
	ReportManager(manager model.Manager) error
	ReportEnvironment(env model.Environment) error
}

// Locator searches one source of environments.
type Locator interface {
	Name() string

	// Find reports everything it finds. Unreadable directories and
	// missing tools are not errors; Find fails only when ctx is done or
	// the Reporter fails.
	Find(ctx context.Context, reporter Reporter) error
}

// Run executes the locators concurrently and waits for all of them.
// The returned error joins every locator's failure.
func Run(ctx context.Context, logger *slog.Logger, reporter Reporter, locators ...Locator) error {
	errs := make([]error, len(locators))

	var wg sync.WaitGroup
	for i, locator := range locators {
		i, locator := i, locator
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			logger.Debug("locator started", "locator", locator.Name())
			if err := locator.Find(ctx, reporter); err != nil {
				logger.Warn("locator failed", "locator", locator.Name(), "error", err)
				errs[i] = fmt.Errorf("%s locator: %w", locator.Name(), err)
				return
			}
			logger.Debug("locator finished", "locator", locator.Name(), "elapsed", time.Since(start))
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// RunStages runs each stage with Run, one after another. Locators that
// report managers belong in an earlier stage than PathLocator, so an
// interpreter they own is announced with its manager before the PATH
// scan can claim it. A cancelled ctx skips the remaining stages.
func RunStages(ctx context.Context, logger *slog.Logger, reporter Reporter, stages ...[]Locator) error {
	var errs []error
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := Run(ctx, logger, reporter, stage...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
