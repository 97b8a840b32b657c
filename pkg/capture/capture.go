// Package capture attaches a screenshot and failure details to the report
// entry of every test whose call phase fails.
//
// Capture is best effort: any problem while taking, reading or attaching the
// screenshot is written to the diagnostic writer and dropped. The test keeps
// its original failure either way.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/uiharness/pkg/harness"
	"github.com/entrhq/uiharness/pkg/logging"
	"github.com/entrhq/uiharness/pkg/report"
)

// FailureCapture is a harness.Listener that screenshots failed tests.
type FailureCapture struct {
	screenshotsDir string
	diag           io.Writer
	logger         *logging.Logger
	now            func() time.Time
}

var _ harness.Listener = (*FailureCapture)(nil)

// Option configures a FailureCapture.
type Option func(*FailureCapture)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *FailureCapture) {
		c.now = now
	}
}

// WithLogger sets the logger used for success and failure entries.
func WithLogger(l *logging.Logger) Option {
	return func(c *FailureCapture) {
		c.logger = l
	}
}

// New creates a capture hook storing screenshots in screenshotsDir and
// writing diagnostics to diag. An empty screenshotsDir falls back to
// report.DefaultScreenshotsDir.
func New(screenshotsDir string, diag io.Writer, opts ...Option) *FailureCapture {
	if diag == nil {
		diag = os.Stderr
	}
	c := &FailureCapture{
		screenshotsDir: screenshotsDir,
		diag:           diag,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.New("capture", io.Discard)
	}
	return c
}

// OnTestCompleted captures failure artifacts for failed call phases of tests
// bound to a browser session. Nothing it does can change the test outcome.
func (c *FailureCapture) OnTestCompleted(tc *harness.TestContext, entry *report.Entry, result harness.PhaseResult) {
	if result.Phase != report.PhaseCall || result.Outcome != report.OutcomeFailed {
		return
	}
	// No session: either a non-UI test or a test that never declared UsesBrowser
	if tc == nil || tc.Session == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			c.fail(fmt.Errorf("panic: %v", rec))
		}
	}()

	path, err := c.capture(tc, entry)
	if err != nil {
		c.fail(err)
		return
	}

	fmt.Fprintf(c.diag, "\nScreenshot saved: %s\n", path)
	c.logger.Infof("screenshot for %s::%s saved to %s", tc.Module, tc.Name, path)
}

func (c *FailureCapture) fail(err error) {
	fmt.Fprintf(c.diag, "\nFailed to capture screenshot: %v\n", err)
	c.logger.Warnf("failed to capture screenshot: %v", err)
}

func (c *FailureCapture) capture(tc *harness.TestContext, entry *report.Entry) (string, error) {
	dir := c.screenshotsDir
	if dir == "" {
		dir = report.DefaultScreenshotsDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	timestamp := c.now().Format(report.ScreenshotTimeLayout)
	path := filepath.Join(dir, ScreenshotName(tc.Name, timestamp))

	if err := tc.Session.SaveScreenshot(path); err != nil {
		return "", err
	}

	if entry == nil {
		return "", errors.New("no report entry to attach artifacts to")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot: %w", err)
	}

	narrative := report.NewArtifact(report.ArtifactNarrative, template.HTML(fmt.Sprintf(
		"<div><h3>Failure Details:</h3><p>Test: %s</p><p>URL: %s</p><p>Time: %s</p></div>",
		html.EscapeString(tc.Name),
		html.EscapeString(tc.Session.URL()),
		timestamp,
	)))
	image := report.NewArtifact(report.ArtifactImage, template.HTML(fmt.Sprintf(
		`<div><img src="data:image/png;base64,%s" width="800px"></div>`,
		base64.StdEncoding.EncodeToString(data),
	)))

	if err := entry.AttachFailure(narrative, image); err != nil {
		return "", fmt.Errorf("failed to attach artifacts: %w", err)
	}
	return path, nil
}

var unsafeNameChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// ScreenshotName builds "<test-name>_<timestamp>.png", replacing characters
// that are not allowed in file names.
func ScreenshotName(testName, timestamp string) string {
	return fmt.Sprintf("%s_%s.png", unsafeNameChars.Replace(testName), timestamp)
}
