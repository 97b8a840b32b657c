// Command uiharness runs Gherkin browser scenarios against a web application
// and writes a self-contained HTML report, with a screenshot for every failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "uiharness",
		Short:         "Browser UI test harness",
		Long:          `Run Gherkin feature files in a real browser, one session per feature file, and write an HTML report with a screenshot of every failed scenario.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags Flags
	NewCommands().Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		}
		os.Exit(1)
	}
}
