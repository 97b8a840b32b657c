package harness

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/entrhq/uiharness/pkg/report"
)

var (
	passedColor  = color.New(color.FgGreen)
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
	headerColor  = color.New(color.Bold)
)

// ConsoleListener prints one line per finished test.
type ConsoleListener struct {
	w io.Writer
}

// NewConsoleListener creates a console listener writing to w.
func NewConsoleListener(w io.Writer) *ConsoleListener {
	return &ConsoleListener{w: w}
}

// OnTestCompleted prints the test verdict once its teardown phase is done.
func (c *ConsoleListener) OnTestCompleted(tc *TestContext, entry *report.Entry, result PhaseResult) {
	if result.Phase != report.PhaseTeardown || entry == nil {
		return
	}

	status := entry.Status()
	label := strings.ToUpper(string(status))
	fmt.Fprintf(c.w, "%s %s::%s (%s)\n", statusColor(status).Sprint(label), tc.Module, tc.Name, entry.Duration().Round(time.Millisecond))

	if msg := entry.Message(); msg != "" && status != report.StatusPassed {
		fmt.Fprintf(c.w, "    %s\n", msg)
	}
}

// PrintSummary prints the final tally and the report location.
func PrintSummary(w io.Writer, s report.Summary, reportPath string) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, strings.Repeat("=", 70))

	parts := []string{
		passedColor.Sprintf("%d passed", s.Passed),
		failedColor.Sprintf("%d failed", s.Failed),
		failedColor.Sprintf("%d errors", s.Errors),
		skippedColor.Sprintf("%d skipped", s.Skipped),
	}
	fmt.Fprintf(w, "%s in %s\n", strings.Join(parts, ", "), s.Duration.Round(time.Millisecond))

	if reportPath != "" {
		fmt.Fprintf(w, "Report: %s\n", reportPath)
	}
	headerColor.Fprintln(w, strings.Repeat("=", 70))
}

func statusColor(s report.Status) *color.Color {
	switch s {
	case report.StatusPassed:
		return passedColor
	case report.StatusSkipped:
		return skippedColor
	default:
		return failedColor
	}
}
