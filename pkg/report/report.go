// Package report models the run report: one HTML document per process with
// ordered metadata and one entry per executed test.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Timestamp layouts used in file names.
const (
	ReportTimeLayout     = "2006-01-02_15-04-05"
	ScreenshotTimeLayout = "20060102_150405"
)

// DefaultScreenshotsDir is used when a report carries no screenshots directory.
const DefaultScreenshotsDir = "reports/screenshots"

// Settings are the inputs of Initialize.
type Settings struct {
	Dir         string
	Title       string
	Project     string
	Environment string
	Browser     string
	Operator    string
}

// Report is the run report. Path, Title and ScreenshotsDir are set once by
// Initialize and only read afterwards.
type Report struct {
	Path           string
	Title          string
	ScreenshotsDir string
	Metadata       *orderedmap.OrderedMap[string, string]
	StartedAt      time.Time

	mu         sync.Mutex
	entries    []*Entry
	finishedAt time.Time
}

// Initialize computes the report path, creates the screenshots directory and
// fills in the descriptive metadata. It must run before any test.
func Initialize(s Settings, now time.Time) (*Report, error) {
	dir := s.Dir
	if dir == "" {
		dir = "reports"
	}

	screenshotsDir := filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(screenshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	md := orderedmap.New[string, string]()
	md.Set(KeyProject, s.Project)
	md.Set(KeyEnvironment, s.Environment)
	md.Set(KeyBrowser, s.Browser)
	md.Set(KeyOperator, s.Operator)

	return &Report{
		Path:           filepath.Join(dir, fmt.Sprintf("report_%s.html", now.Format(ReportTimeLayout))),
		Title:          s.Title,
		ScreenshotsDir: screenshotsDir,
		Metadata:       md,
		StartedAt:      now,
	}, nil
}

// StartEntry creates and appends the entry for a test about to run.
func (r *Report) StartEntry(module, name string) *Entry {
	e := &Entry{
		Module:    module,
		Name:      name,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return e
}

// Entries returns the entries in execution order.
func (r *Report) Entries() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Entry(nil), r.entries...)
}

// Finish records the end of the run.
func (r *Report) Finish(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishedAt = at
}

// Summary counts entries per status.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// OK reports whether nothing failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errors == 0
}

// Summary tallies the report's entries.
func (r *Report) Summary() Summary {
	entries := r.Entries()

	var s Summary
	for _, e := range entries {
		s.Total++
		switch e.Status() {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Errors++
		}
	}

	r.mu.Lock()
	if !r.finishedAt.IsZero() {
		s.Duration = r.finishedAt.Sub(r.StartedAt)
	}
	r.mu.Unlock()
	return s
}
