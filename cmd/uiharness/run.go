package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/entrhq/uiharness/pkg/browser"
	"github.com/entrhq/uiharness/pkg/capture"
	"github.com/entrhq/uiharness/pkg/config"
	"github.com/entrhq/uiharness/pkg/harness"
	"github.com/entrhq/uiharness/pkg/logging"
	"github.com/entrhq/uiharness/pkg/report"
)

// errTestsFailed makes the process exit with status 1 without printing an error.
var errTestsFailed = errors.New("tests failed")

// SessionProvider is a harness.SessionProvider that owns the browser process.
type SessionProvider interface {
	harness.SessionProvider
	Shutdown() error
}

// RunCommand handles the run command
type RunCommand struct {
	// NewProvider starts the browser driver; nil means a playwright browser.Manager
	NewProvider func(cfg config.BrowserConfig, logger *logging.Logger) (SessionProvider, error)
}

func newBrowserManager(cfg config.BrowserConfig, logger *logging.Logger) (SessionProvider, error) {
	manager := browser.NewManager(browser.OptionsFromConfig(cfg), logger)
	if err := manager.Initialize(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Execute runs the selected scenarios and writes the report
//
//nolint:gocyclo
func (rc *RunCommand) Execute(cmd *cobra.Command, cfg *config.Config) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	level := logging.ParseVerbosity(cfg.Logging.Verbosity)
	var console io.Writer
	if level == logging.LevelDebug {
		console = os.Stderr
	}
	logger, err := logging.NewRunLogger("uiharness", filepath.Join(cfg.Report.Dir, "logs"), console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()
	logger.SetLevel(level)

	// Report first, so the run is recorded even if the browser never starts
	rep, err := report.Initialize(report.Settings{
		Dir:         cfg.Report.Dir,
		Title:       cfg.Report.Title,
		Project:     cfg.Project,
		Environment: cfg.Environment,
		Browser:     cfg.Browser.Label,
		Operator:    config.ResolveOperator(nil),
	}, time.Now())
	if err != nil {
		return err
	}
	logger.Infof("Run %s started, report will be written to %s", logger.RunID(), rep.Path)

	modules, selector, err := loadModules(cfg)
	if err != nil {
		return err
	}

	newProvider := rc.NewProvider
	if newProvider == nil {
		newProvider = newBrowserManager
	}
	provider, err := newProvider(cfg.Browser, logger.With("browser"))
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(); err != nil {
			logger.Errorf("browser shutdown: %v", err)
		}
	}()

	runner := harness.NewRunner(provider, rep,
		harness.WithSelector(selector),
		harness.WithLogger(logger.With("runner")),
	)
	runner.Register("failure-capture", capture.New(rep.ScreenshotsDir, os.Stderr,
		capture.WithLogger(logger.With("capture")),
	))
	runner.Register("console", harness.NewConsoleListener(out))

	report.CollectEnvironment(rep.Metadata, runner.Plugins())

	runErr := runner.Run(ctx, modules)
	if runErr != nil && errors.Is(runErr, context.Canceled) {
		color.New(color.FgYellow).Fprintln(out, "\nRun interrupted, writing partial report")
		runErr = nil
	}

	report.SanitizeMetadata(rep.Metadata)
	rep.Finish(time.Now())
	if err := rep.Write(); err != nil {
		return err
	}

	summary := rep.Summary()
	harness.PrintSummary(out, summary, rep.Path)
	if path := logger.LogPath(); path != "" {
		fmt.Fprintf(out, "Log: %s\n", path)
	}

	if runErr != nil {
		return runErr
	}
	if !summary.OK() {
		return errTestsFailed
	}
	return nil
}
