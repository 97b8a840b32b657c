package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/entrhq/uiharness/pkg/browser"
	"github.com/entrhq/uiharness/pkg/logging"
	"github.com/entrhq/uiharness/pkg/report"
)

// Runner drives modules to completion one test at a time.
type Runner struct {
	provider  SessionProvider
	report    *report.Report
	logger    *logging.Logger
	selector  *Selector
	listeners []namedListener
}

type namedListener struct {
	name     string
	listener Listener
}

// Option configures a Runner.
type Option func(*Runner)

// WithSelector restricts the run to the tests the selector accepts.
func WithSelector(s *Selector) Option {
	return func(r *Runner) {
		r.selector = s
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner writing entries into rep.
func NewRunner(provider SessionProvider, rep *report.Report, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		report:   rep,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.New("runner", io.Discard)
	}
	if r.selector == nil {
		r.selector = &Selector{}
	}
	return r
}

// Register adds a listener. Listeners are called in registration order.
func (r *Runner) Register(name string, l Listener) {
	r.listeners = append(r.listeners, namedListener{name: name, listener: l})
}

// Plugins returns the names of the registered listeners.
func (r *Runner) Plugins() []string {
	names := make([]string, 0, len(r.listeners))
	for _, l := range r.listeners {
		names = append(names, l.name)
	}
	return names
}

// Run executes the modules in order. Cancelling ctx stops the run before the
// next test starts; the current module's session is still released.
func (r *Runner) Run(ctx context.Context, modules []Module) error {
	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.runModule(ctx, m)
	}
	return ctx.Err()
}

func (r *Runner) runModule(ctx context.Context, m Module) {
	fx := &moduleFixture{
		provider: r.provider,
		module:   m.Name,
		logger:   r.logger,
	}
	defer fx.release()

	for _, test := range m.Tests {
		if !r.selector.Match(m.Name, test.Name) {
			continue
		}
		if ctx.Err() != nil {
			r.logger.Warnf("run interrupted, skipping the rest of module %q", m.Name)
			return
		}
		r.runTest(ctx, m.Name, test, fx)
	}
}

func (r *Runner) runTest(ctx context.Context, module string, test Test, fx *moduleFixture) {
	entry := r.report.StartEntry(module, test.Name)
	defer entry.Seal()

	tc := &TestContext{
		Context: ctx,
		Module:  module,
		Name:    test.Name,
		Logger:  r.logger.With(module),
	}

	r.logger.Debugf("running %s::%s", module, test.Name)

	setup := runPhase(report.PhaseSetup, func() error {
		if test.UsesBrowser {
			handle, err := fx.get(ctx)
			if err != nil {
				return err
			}
			tc.Session = handle
		}
		if test.Setup != nil {
			return test.Setup(tc)
		}
		return nil
	})
	r.complete(tc, entry, setup)

	if setup.Outcome == report.OutcomePassed {
		r.complete(tc, entry, runPhase(report.PhaseCall, func() error {
			if test.Call == nil {
				return nil
			}
			return test.Call(tc)
		}))
	}

	r.complete(tc, entry, runPhase(report.PhaseTeardown, func() error {
		if test.Teardown == nil {
			return nil
		}
		return test.Teardown(tc)
	}))
}

// complete records a phase on the entry and then notifies the listeners.
func (r *Runner) complete(tc *TestContext, entry *report.Entry, res PhaseResult) {
	rec := report.PhaseRecord{
		Phase:    res.Phase,
		Outcome:  res.Outcome,
		Duration: res.Duration,
	}
	if res.Err != nil {
		rec.Message = res.Err.Error()
	}
	if err := entry.Record(rec); err != nil {
		r.logger.Errorf("failed to record %s phase of %s: %v", res.Phase, tc.Name, err)
	}

	if res.Failed() {
		r.logger.Errorf("%s::%s %s failed: %v", tc.Module, tc.Name, res.Phase, res.Err)
	}

	for _, l := range r.listeners {
		r.notify(l, tc, entry, res)
	}
}

func (r *Runner) notify(l namedListener, tc *TestContext, entry *report.Entry, res PhaseResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("listener %q panicked on %s::%s: %v", l.name, tc.Module, tc.Name, rec)
		}
	}()
	l.listener.OnTestCompleted(tc, entry, res)
}

// runPhase runs fn, turning panics into failures and ErrSkip into skips.
func runPhase(phase report.Phase, fn func() error) (res PhaseResult) {
	start := time.Now()
	res.Phase = phase

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("panic: %v", rec)
		}
		res.Duration = time.Since(start)
		switch {
		case res.Err == nil:
			res.Outcome = report.OutcomePassed
		case errors.Is(res.Err, ErrSkip):
			res.Outcome = report.OutcomeSkipped
		default:
			res.Outcome = report.OutcomeFailed
		}
	}()

	res.Err = fn()
	return res
}

// moduleFixture lazily acquires a module's session and releases it once.
type moduleFixture struct {
	provider SessionProvider
	module   string
	logger   *logging.Logger

	handle browser.Handle
	err    error
}

func (f *moduleFixture) get(ctx context.Context) (browser.Handle, error) {
	if f.handle != nil || f.err != nil {
		return f.handle, f.err
	}
	if f.provider == nil {
		f.err = fmt.Errorf("no session provider configured for module %q", f.module)
		return nil, f.err
	}

	handle, err := f.provider.Acquire(ctx, f.module)
	if err != nil {
		f.err = fmt.Errorf("browser fixture for module %q: %w", f.module, err)
		return nil, f.err
	}
	f.handle = handle
	return handle, nil
}

func (f *moduleFixture) release() {
	if f.handle == nil {
		return
	}
	f.handle = nil
	if err := f.provider.Release(f.module); err != nil {
		f.logger.Warnf("failed to release session of module %q: %v", f.module, err)
	}
}
