// Package harness runs UI test modules one test at a time and reports every
// phase to registered listeners.
//
// A Module groups tests that share one browser session. The session is
// acquired the first time a test of the module declares UsesBrowser, and
// released exactly once after the module's last test, even when every test
// failed or panicked. A failed acquisition is remembered: later tests of the
// same module error in setup with the same cause instead of relaunching.
//
// Each test goes through setup, call and teardown. After every phase the
// runner records the outcome on the test's report entry and then invokes the
// listeners synchronously, in registration order, with a TestContext that
// carries the bound session (nil when the test did not ask for one). A
// listener cannot change the recorded outcome, and a panicking listener is
// logged and ignored.
//
// A nil TestContext.Session means the test did not use a browser; the runner
// does not tell that apart from a module whose tests forgot to declare
// UsesBrowser.
package harness
