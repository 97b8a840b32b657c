// Package bdd turns Gherkin feature files into harness modules.
//
// Step phrases are bound to Go functions through a Registry. Each feature file
// becomes one harness.Module (and therefore one browser session), and each
// scenario becomes one test whose call phase runs the scenario's steps in order.
package bdd

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/entrhq/uiharness/pkg/harness"
)

// ErrStepNotFound is returned when no registered step matches a scenario step.
var ErrStepNotFound = errors.New("step definition not found")

// Keyword is the kind of a step.
type Keyword string

const (
	Given Keyword = "Given"
	When  Keyword = "When"
	Then  Keyword = "Then"

	// Any is used for steps whose kind cannot be told, such as a leading And.
	Any Keyword = "*"
)

// StepFunc implements a step. args are the pattern's capture groups followed by
// the step's doc string, if it has one.
type StepFunc func(tc *harness.TestContext, args ...string) error

// StepDef is a registered step.
type StepDef struct {
	Keyword Keyword
	Pattern *regexp.Regexp
	Func    StepFunc
}

// Registry holds step definitions.
type Registry struct {
	mu    sync.RWMutex
	steps []*StepDef
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a step definition. The pattern must match the whole step text.
func (r *Registry) Register(kw Keyword, pattern string, fn StepFunc) error {
	if fn == nil {
		return fmt.Errorf("step %q has no function", pattern)
	}
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, &StepDef{Keyword: kw, Pattern: re, Func: fn})
	return nil
}

// Given registers a Given step and panics on an invalid pattern.
func (r *Registry) Given(pattern string, fn StepFunc) {
	r.mustRegister(Given, pattern, fn)
}

// When registers a When step and panics on an invalid pattern.
func (r *Registry) When(pattern string, fn StepFunc) {
	r.mustRegister(When, pattern, fn)
}

// Then registers a Then step and panics on an invalid pattern.
func (r *Registry) Then(pattern string, fn StepFunc) {
	r.mustRegister(Then, pattern, fn)
}

func (r *Registry) mustRegister(kw Keyword, pattern string, fn StepFunc) {
	if err := r.Register(kw, pattern, fn); err != nil {
		panic(err)
	}
}

// Match finds the first definition of kind kw whose pattern matches text and
// returns it with the captured arguments. Any matches definitions of every kind.
func (r *Registry) Match(kw Keyword, text string) (*StepDef, []string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.steps {
		if kw != Any && def.Keyword != kw {
			continue
		}
		if m := def.Pattern.FindStringSubmatch(text); m != nil {
			return def, m[1:], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s %q", ErrStepNotFound, kw, text)
}

// Count returns the number of registered steps.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}
