package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiharness/pkg/harness/harnesstest"
	"github.com/entrhq/uiharness/pkg/report"
)

type phaseEvent struct {
	test    string
	phase   report.Phase
	outcome report.Outcome
	bound   bool
}

func recordingListener(events *[]phaseEvent) Listener {
	return ListenerFunc(func(tc *TestContext, entry *report.Entry, res PhaseResult) {
		*events = append(*events, phaseEvent{
			test:    tc.Name,
			phase:   res.Phase,
			outcome: res.Outcome,
			bound:   tc.Session != nil,
		})
	})
}

func newTestReport(t *testing.T) *report.Report {
	t.Helper()
	rep, err := report.Initialize(report.Settings{Dir: t.TempDir(), Title: "test"}, time.Now())
	require.NoError(t, err)
	return rep
}

func failing(msg string) func(*TestContext) error {
	return func(*TestContext) error { return errors.New(msg) }
}

func TestRunnerReleasesOncePerModuleWhenEveryTestFails(t *testing.T) {
	provider := harnesstest.NewFakeProvider()
	rep := newTestReport(t)
	runner := NewRunner(provider, rep)

	modules := []Module{
		{
			Name: "search",
			Tests: []Test{
				{Name: "test_one", UsesBrowser: true, Call: failing("one")},
				{Name: "test_two", UsesBrowser: true, Call: func(*TestContext) error { panic("two") }},
				{Name: "test_three", UsesBrowser: true, Teardown: failing("three")},
			},
		},
		{
			Name: "home",
			Tests: []Test{
				{Name: "test_title", UsesBrowser: true, Call: failing("title")},
			},
		},
	}

	require.NoError(t, runner.Run(context.Background(), modules))

	assert.Equal(t, 1, provider.Acquired["search"])
	assert.Equal(t, 1, provider.Released["search"])
	assert.Equal(t, 1, provider.Acquired["home"])
	assert.Equal(t, 1, provider.Released["home"])
	assert.Empty(t, provider.Sessions)

	s := rep.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Failed)
	assert.Equal(t, 1, s.Errors)
}

func TestRunnerSharesSessionWithinModule(t *testing.T) {
	provider := harnesstest.NewFakeProvider()
	runner := NewRunner(provider, newTestReport(t))

	var seen []interface{}
	capture := func(tc *TestContext) error {
		seen = append(seen, tc.Session)
		return nil
	}

	err := runner.Run(context.Background(), []Module{{
		Name: "home",
		Tests: []Test{
			{Name: "test_a", UsesBrowser: true, Call: capture},
			{Name: "test_b", UsesBrowser: true, Call: capture},
		},
	}})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Same(t, seen[0], seen[1])
}

func TestRunnerDoesNotAcquireForNonBrowserModules(t *testing.T) {
	provider := harnesstest.NewFakeProvider()
	var events []phaseEvent
	runner := NewRunner(provider, newTestReport(t))
	runner.Register("recorder", recordingListener(&events))

	err := runner.Run(context.Background(), []Module{{
		Name:  "api",
		Tests: []Test{{Name: "test_plain", Call: func(*TestContext) error { return nil }}},
	}})
	require.NoError(t, err)

	assert.Zero(t, provider.Acquired["api"])
	assert.Zero(t, provider.Released["api"])
	for _, ev := range events {
		assert.False(t, ev.bound)
	}
}

func TestRunnerPhaseOrderAndOutcomes(t *testing.T) {
	var events []phaseEvent
	runner := NewRunner(harnesstest.NewFakeProvider(), newTestReport(t))
	runner.Register("recorder", recordingListener(&events))

	err := runner.Run(context.Background(), []Module{{
		Name: "m",
		Tests: []Test{
			{Name: "pass"},
			{Name: "fail", Call: failing("boom")},
			{Name: "skip", Call: func(*TestContext) error { return Skip("not today") }},
			{Name: "setup_error", Setup: failing("no fixture")},
		},
	}})
	require.NoError(t, err)

	want := []phaseEvent{
		{"pass", report.PhaseSetup, report.OutcomePassed, false},
		{"pass", report.PhaseCall, report.OutcomePassed, false},
		{"pass", report.PhaseTeardown, report.OutcomePassed, false},
		{"fail", report.PhaseSetup, report.OutcomePassed, false},
		{"fail", report.PhaseCall, report.OutcomeFailed, false},
		{"fail", report.PhaseTeardown, report.OutcomePassed, false},
		{"skip", report.PhaseSetup, report.OutcomePassed, false},
		{"skip", report.PhaseCall, report.OutcomeSkipped, false},
		{"skip", report.PhaseTeardown, report.OutcomePassed, false},
		{"setup_error", report.PhaseSetup, report.OutcomeFailed, false},
		{"setup_error", report.PhaseTeardown, report.OutcomePassed, false},
	}
	assert.Equal(t, want, events)
}

func TestRunnerAcquireFailureErrorsBrowserTests(t *testing.T) {
	provider := harnesstest.NewFakeProvider()
	provider.AcquireErr = errors.New("chromium not found")
	rep := newTestReport(t)
	runner := NewRunner(provider, rep)

	called := false
	err := runner.Run(context.Background(), []Module{{
		Name: "home",
		Tests: []Test{
			{Name: "test_a", UsesBrowser: true, Call: func(*TestContext) error { called = true; return nil }},
			{Name: "test_b", UsesBrowser: true},
		},
	}})
	require.NoError(t, err)

	assert.False(t, called)
	// The failure is cached for the module: no relaunch attempt
	assert.Equal(t, 1, provider.Acquired["home"])
	assert.Zero(t, provider.Released["home"])

	for _, e := range rep.Entries() {
		assert.Equal(t, report.StatusError, e.Status())
		assert.Contains(t, e.Message(), "chromium not found")
		_, ran := e.Outcome(report.PhaseCall)
		assert.False(t, ran)
	}
}

func TestRunnerListenerPanicIsContained(t *testing.T) {
	rep := newTestReport(t)
	runner := NewRunner(harnesstest.NewFakeProvider(), rep)

	var after int
	runner.Register("explosive", ListenerFunc(func(*TestContext, *report.Entry, PhaseResult) {
		panic("listener bug")
	}))
	runner.Register("counter", ListenerFunc(func(*TestContext, *report.Entry, PhaseResult) {
		after++
	}))

	err := runner.Run(context.Background(), []Module{{
		Name:  "m",
		Tests: []Test{{Name: "test_fail", Call: failing("original cause")}},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, after)
	entries := rep.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, report.StatusFailed, entries[0].Status())
	assert.Equal(t, "original cause", entries[0].Message())
	assert.True(t, entries[0].Sealed())
}

func TestRunnerCancellation(t *testing.T) {
	provider := harnesstest.NewFakeProvider()
	rep := newTestReport(t)
	runner := NewRunner(provider, rep)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := runner.Run(ctx, []Module{
		{
			Name: "first",
			Tests: []Test{
				{Name: "test_cancel", UsesBrowser: true, Call: func(*TestContext) error { cancel(); return nil }},
				{Name: "test_never", UsesBrowser: true},
			},
		},
		{Name: "second", Tests: []Test{{Name: "test_never_either"}}},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rep.Entries(), 1)
	assert.Equal(t, 1, provider.Released["first"])
}

func TestRunnerSelector(t *testing.T) {
	sel, err := NewSelector([]string{"*search*"}, nil)
	require.NoError(t, err)

	provider := harnesstest.NewFakeProvider()
	rep := newTestReport(t)
	runner := NewRunner(provider, rep, WithSelector(sel))

	err = runner.Run(context.Background(), []Module{
		{Name: "home", Tests: []Test{{Name: "test_title", UsesBrowser: true}}},
		{Name: "google", Tests: []Test{{Name: "test_search_results", UsesBrowser: true}}},
	})
	require.NoError(t, err)

	require.Len(t, rep.Entries(), 1)
	assert.Equal(t, "test_search_results", rep.Entries()[0].Name)
	assert.Zero(t, provider.Acquired["home"])
}

func TestTestContextValues(t *testing.T) {
	tc := &TestContext{}
	_, ok := tc.Get("page")
	assert.False(t, ok)

	tc.Set("page", 42)
	v, ok := tc.Get("page")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestPlugins(t *testing.T) {
	runner := NewRunner(nil, newTestReport(t))
	runner.Register("capture", ListenerFunc(func(*TestContext, *report.Entry, PhaseResult) {}))
	runner.Register("console", NewConsoleListener(nil))

	assert.Equal(t, []string{"capture", "console"}, runner.Plugins())
}
