package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/entrhq/uiharness/pkg/config"
)

// ListCommand handles the list command
type ListCommand struct{}

// Execute prints the selected tests grouped by module
func (lc *ListCommand) Execute(cmd *cobra.Command, cfg *config.Config) error {
	modules, _, err := loadModules(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, m := range modules {
		color.New(color.Bold).Fprintln(out, m.Name)
		for _, t := range m.Tests {
			fmt.Fprintf(out, "  %s::%s\n", m.Name, t.Name)
			total++
		}
	}

	if total == 0 {
		color.New(color.FgYellow).Fprintln(out, "No tests selected")
		return nil
	}
	fmt.Fprintf(out, "\n%d tests in %d modules\n", total, len(modules))
	return nil
}
