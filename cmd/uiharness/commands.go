package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/uiharness/pkg/config"
)

// Flags holds the command-line overrides shared by the commands.
type Flags struct {
	ConfigFile string
	EnvFile    string

	FeaturesDir string
	Include     []string
	Exclude     []string

	Engine    string
	Headed    bool
	Install   bool
	ReportDir string
	Verbosity string
}

// apply overrides cfg with every flag the user set.
func (f *Flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("features") {
		cfg.Features.Dir = f.FeaturesDir
	}
	if changed("include") {
		cfg.Features.Include = f.Include
	}
	if changed("exclude") {
		cfg.Features.Exclude = f.Exclude
	}
	if changed("browser") {
		cfg.Browser.Engine = config.BrowserEngine(f.Engine)
	}
	if changed("headed") {
		cfg.Browser.Headless = !f.Headed
	}
	if changed("install") {
		cfg.Browser.Install = f.Install
	}
	if changed("report-dir") {
		cfg.Report.Dir = f.ReportDir
	}
	if changed("verbosity") {
		cfg.Logging.Verbosity = f.Verbosity
	}
}

// Commands holds all CLI commands
type Commands struct {
	Run  *RunCommand
	List *ListCommand
}

// NewCommands creates all commands
func NewCommands() *Commands {
	return &Commands{
		Run:  &RunCommand{},
		List: &ListCommand{},
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *Flags) {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "Environment file loaded before the run (default "+config.DefaultEnvFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&flags.FeaturesDir, "features", "d", "", "Directory holding the .feature files")
	rootCmd.PersistentFlags().StringSliceVarP(&flags.Include, "include", "k", nil, "Run only tests matching these patterns (e.g. 'search::*' or 'test_*title*')")
	rootCmd.PersistentFlags().StringSliceVar(&flags.Exclude, "exclude", nil, "Skip tests matching these patterns")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios and write the HTML report",
		Long:  "Load the feature files, run every selected scenario in the browser and write the HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return c.Run.Execute(cmd, cfg)
		},
	}
	runCmd.Flags().StringVarP(&flags.Engine, "browser", "b", "", "Browser engine: chromium, firefox or webkit")
	runCmd.Flags().BoolVar(&flags.Headed, "headed", false, "Show the browser window")
	runCmd.Flags().BoolVar(&flags.Install, "install", false, "Install the browser binaries before the run")
	runCmd.Flags().StringVarP(&flags.ReportDir, "report-dir", "o", "", "Directory for the report, screenshots and logs")
	runCmd.Flags().StringVarP(&flags.Verbosity, "verbosity", "v", "", "Logging verbosity: quiet, normal, verbose or debug")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the selected tests",
		Long:  "Load the feature files and list the tests a run would execute, without starting a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return c.List.Execute(cmd, cfg)
		},
	}
	rootCmd.AddCommand(listCmd)
}
