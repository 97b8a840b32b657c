package bdd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	"github.com/entrhq/uiharness/pkg/harness"
)

// FeatureExt is the extension of feature files.
const FeatureExt = ".feature"

// SkipTag skips every scenario carrying it.
const SkipTag = "@skip"

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// TestName derives a test name from a scenario name:
// "Validate the home page title" becomes "test_validate_the_home_page_title".
func TestName(scenario string) string {
	slug := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(scenario), "_"), "_")
	if slug == "" {
		return "test_scenario"
	}
	return "test_" + slug
}

// ModuleName derives a module name from a feature file path.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// LoadDir loads every feature file directly under dir, ordered by file name.
func LoadDir(dir string, registry *Registry) ([]harness.Module, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+FeatureExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list feature files: %w", err)
	}
	sort.Strings(paths)

	modules := make([]harness.Module, 0, len(paths))
	for _, path := range paths {
		m, err := LoadFile(path, registry)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// LoadFile parses one feature file into a module with one browser test per
// scenario (and per example row of a scenario outline).
func LoadFile(path string, registry *Registry) (harness.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return harness.Module{}, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer f.Close()

	doc, err := gherkin.ParseGherkinDocument(f, uuid.NewString)
	if err != nil {
		return harness.Module{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	pickles := gherkin.Pickles(*doc, path, uuid.NewString)
	names := scenarioNames(pickles)

	m := harness.Module{Name: ModuleName(path)}
	for i, p := range pickles {
		m.Tests = append(m.Tests, newTest(names[i], p, registry))
	}
	return m, nil
}

// scenarioNames assigns test names, numbering scenarios that share a name.
func scenarioNames(pickles []*messages.Pickle) []string {
	counts := make(map[string]int)
	for _, p := range pickles {
		counts[TestName(p.Name)]++
	}

	seen := make(map[string]int)
	names := make([]string, len(pickles))
	for i, p := range pickles {
		name := TestName(p.Name)
		if counts[name] > 1 {
			seen[name]++
			name = fmt.Sprintf("%s[%d]", name, seen[name])
		}
		names[i] = name
	}
	return names
}

func newTest(name string, p *messages.Pickle, registry *Registry) harness.Test {
	t := harness.Test{
		Name:        name,
		UsesBrowser: true,
		Call: func(tc *harness.TestContext) error {
			return runSteps(tc, p, registry)
		},
	}
	if hasTag(p, SkipTag) {
		t.UsesBrowser = false
		t.Setup = func(*harness.TestContext) error {
			return harness.Skip("scenario tagged " + SkipTag)
		}
	}
	return t
}

func runSteps(tc *harness.TestContext, p *messages.Pickle, registry *Registry) error {
	for _, step := range p.Steps {
		def, args, err := registry.Match(stepKeyword(step.Type), step.Text)
		if err != nil {
			return err
		}
		if step.Argument != nil && step.Argument.DocString != nil {
			args = append(args, step.Argument.DocString.Content)
		}

		if tc.Logger != nil {
			tc.Logger.Infof("%s %s", def.Keyword, step.Text)
		}
		if err := def.Func(tc, args...); err != nil {
			return fmt.Errorf("step %q failed: %w", step.Text, err)
		}
	}
	return nil
}

func stepKeyword(t messages.PickleStepType) Keyword {
	switch t {
	case messages.PickleStepType_CONTEXT:
		return Given
	case messages.PickleStepType_ACTION:
		return When
	case messages.PickleStepType_OUTCOME:
		return Then
	default:
		return Any
	}
}

func hasTag(p *messages.Pickle, tag string) bool {
	for _, t := range p.Tags {
		if t.Name == tag {
			return true
		}
	}
	return false
}
