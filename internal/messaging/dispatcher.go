package messaging

import (
	"sync"

	"pylocator/internal/model"
)

// Dispatcher is the reporting surface discovery talks to.
type Dispatcher interface {
	// WasEnvironmentReported reports whether an environment keyed by the
	// probe's executable has already been sent. It never sends anything.
	WasEnvironmentReported(probe model.PythonEnv) bool

	// ReportManager sends a manager the first time its key is seen.
	ReportManager(manager model.Manager) error

	// ReportEnvironment sends an environment the first time its key is
	// seen, then forwards its manager (if any) to ReportManager.
	ReportEnvironment(env model.Environment) error

	// Exit sends the termination notification. Every call sends one.
	Exit() error
}

// JSONRPCDispatcher deduplicates reports by identity key and hands new
// ones to a Sender. The key sets only grow. It is not safe for
// concurrent use; see SyncDispatcher.
type JSONRPCDispatcher struct {
	sender               Sender
	reportedManagers     map[ManagerKey]struct{}
	reportedEnvironments map[EnvironmentKey]struct{}
}

// NewDispatcher returns a dispatcher with empty key sets.
func NewDispatcher(sender Sender) *JSONRPCDispatcher {
	return &JSONRPCDispatcher{
		sender:               sender,
		reportedManagers:     make(map[ManagerKey]struct{}),
		reportedEnvironments: make(map[EnvironmentKey]struct{}),
	}
}

func (d *JSONRPCDispatcher) WasEnvironmentReported(probe model.PythonEnv) bool {
	key, ok := KeyForProbe(probe)
	if !ok {
		return false
	}
	_, seen := d.reportedEnvironments[key]
	return seen
}

// ReportManager drops managers without a key silently.
func (d *JSONRPCDispatcher) ReportManager(manager model.Manager) error {
	key, ok := KeyForManager(manager)
	if !ok {
		return nil
	}
	if _, seen := d.reportedManagers[key]; seen {
		return nil
	}
	d.reportedManagers[key] = struct{}{}
	return d.sender.Send(NewManagerEnvelope(manager))
}

// ReportEnvironment drops environments without a key silently, and
// does not forward their manager either.
func (d *JSONRPCDispatcher) ReportEnvironment(env model.Environment) error {
	key, ok := KeyForEnvironment(env)
	if !ok {
		return nil
	}
	if _, seen := d.reportedEnvironments[key]; !seen {
		d.reportedEnvironments[key] = struct{}{}
		if err := d.sender.Send(NewEnvironmentEnvelope(env)); err != nil {
			return err
		}
	}
	if env.Manager != nil {
		return d.ReportManager(*env.Manager)
	}
	return nil
}

func (d *JSONRPCDispatcher) Exit() error {
	return d.sender.Send(NewExitEnvelope())
}

// Reported returns how many distinct managers and environments have
// been sent so far.
func (d *JSONRPCDispatcher) Reported() (managers, environments int) {
	return len(d.reportedManagers), len(d.reportedEnvironments)
}

// SyncDispatcher serializes every call into an inner Dispatcher so the
// check-then-insert inside it cannot race.
type SyncDispatcher struct {
	mu    sync.Mutex
	inner Dispatcher
}

// NewSyncDispatcher guards inner with a mutex. Do not call inner
// directly while other goroutines use the wrapper.
func NewSyncDispatcher(inner Dispatcher) *SyncDispatcher {
	return &SyncDispatcher{inner: inner}
}

func (s *SyncDispatcher) WasEnvironmentReported(probe model.PythonEnv) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.WasEnvironmentReported(probe)
}

func (s *SyncDispatcher) ReportManager(manager model.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ReportManager(manager)
}

func (s *SyncDispatcher) ReportEnvironment(env model.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ReportEnvironment(env)
}

func (s *SyncDispatcher) Exit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Exit()
}
