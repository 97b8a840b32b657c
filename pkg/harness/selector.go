package harness

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Selector decides which tests run, using glob patterns matched against both
// the bare test name and "module::name".
type Selector struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewSelector compiles include and exclude patterns.
func NewSelector(include, exclude []string) (*Selector, error) {
	s := &Selector{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		s.include = append(s.include, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		s.exclude = append(s.exclude, g)
	}

	return s, nil
}

// Match returns true if the test is selected. Excludes win over includes;
// no include patterns selects everything.
func (s *Selector) Match(module, name string) bool {
	full := module + "::" + name

	for _, g := range s.exclude {
		if g.Match(name) || g.Match(full) {
			return false
		}
	}

	if len(s.include) == 0 {
		return true
	}

	for _, g := range s.include {
		if g.Match(name) || g.Match(full) {
			return true
		}
	}
	return false
}

// Filter returns the modules with only their selected tests, dropping empty modules.
func (s *Selector) Filter(modules []Module) []Module {
	var out []Module
	for _, m := range modules {
		var tests []Test
		for _, t := range m.Tests {
			if s.Match(m.Name, t.Name) {
				tests = append(tests, t)
			}
		}
		if len(tests) > 0 {
			out = append(out, Module{Name: m.Name, Tests: tests})
		}
	}
	return out
}
