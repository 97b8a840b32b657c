package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/uiharness/pkg/browser"
	"github.com/entrhq/uiharness/pkg/logging"
	"github.com/entrhq/uiharness/pkg/report"
)

// ErrSkip marks a phase as skipped instead of failed.
var ErrSkip = errors.New("skipped")

// Skip returns an error that skips the current test with a reason.
func Skip(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkip, reason)
}

// Module is a group of tests sharing one browser session.
type Module struct {
	Name  string
	Tests []Test
}

// Test is a single test. Any of the phase functions may be nil.
type Test struct {
	Name string

	// UsesBrowser binds the module's session to the test during setup
	UsesBrowser bool

	Setup    func(tc *TestContext) error
	Call     func(tc *TestContext) error
	Teardown func(tc *TestContext) error
}

// TestContext is passed to the phases of one test and to the listeners.
type TestContext struct {
	Context context.Context
	Module  string
	Name    string

	// Session is the module's browser session, nil when the test did not request one
	Session browser.Handle

	Logger *logging.Logger

	values map[string]interface{}
}

// Set stores a value shared between the phases and steps of one test.
func (tc *TestContext) Set(key string, value interface{}) {
	if tc.values == nil {
		tc.values = make(map[string]interface{})
	}
	tc.values[key] = value
}

// Get returns a value stored with Set.
func (tc *TestContext) Get(key string) (interface{}, bool) {
	v, ok := tc.values[key]
	return v, ok
}

// PhaseResult is what listeners learn about a finished phase.
type PhaseResult struct {
	Phase    report.Phase
	Outcome  report.Outcome
	Err      error
	Duration time.Duration
}

// Failed reports whether the phase failed.
func (r PhaseResult) Failed() bool {
	return r.Outcome == report.OutcomeFailed
}

// Listener observes every completed phase of every test.
// Implementations must not panic; the runner recovers if they do.
type Listener interface {
	OnTestCompleted(tc *TestContext, entry *report.Entry, result PhaseResult)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(tc *TestContext, entry *report.Entry, result PhaseResult)

// OnTestCompleted calls f.
func (f ListenerFunc) OnTestCompleted(tc *TestContext, entry *report.Entry, result PhaseResult) {
	f(tc, entry, result)
}

// SessionProvider acquires and releases the browser session of a module.
type SessionProvider interface {
	Acquire(ctx context.Context, module string) (browser.Handle, error)
	Release(module string) error
}
