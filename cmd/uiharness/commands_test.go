package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/uiharness/pkg/config"
)

func newRoot() (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "uiharness", SilenceUsage: true, SilenceErrors: true}
	var flags Flags
	NewCommands().Register(root, &flags)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	return root, out
}

func TestFlagsApplyOnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "run"}
	var flags Flags
	cmd.Flags().BoolVar(&flags.Headed, "headed", false, "")
	cmd.Flags().StringVar(&flags.ReportDir, "report-dir", "", "")
	cmd.Flags().StringVar(&flags.Engine, "browser", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--headed", "--report-dir", "out"}))

	cfg := config.DefaultConfig()
	flags.apply(cmd, cfg)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "out", cfg.Report.Dir)
	assert.Equal(t, config.EngineChromium, cfg.Browser.Engine)
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	features := filepath.Join(dir, "features")
	require.NoError(t, os.MkdirAll(features, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(features, "para_home_page.feature"), []byte(`Feature: Home
  Scenario: Validate the home page title
    Given I open the Para Bank homepage
  Scenario: Another check
    Given I open the Para Bank homepage
`), 0600))

	t.Run("all tests", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"list"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "para_home_page::test_validate_the_home_page_title")
		assert.Contains(t, out.String(), "para_home_page::test_another_check")
		assert.Contains(t, out.String(), "2 tests in 1 modules")
	})

	t.Run("include pattern", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"list", "-k", "*title*"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "test_validate_the_home_page_title")
		assert.NotContains(t, out.String(), "test_another_check")
	})

	t.Run("nothing selected", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"list", "--exclude", "para_home_page::*"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "No tests selected")
	})
}

func TestListCommandInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uiharness.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  engine: opera\n"), 0600))

	root, _ := newRoot()
	root.SetArgs([]string{"list", "--config", path})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid browser engine")
}

func TestMissingExplicitEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	root, _ := newRoot()
	root.SetArgs([]string{"list", "--env-file", "missing.env"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.env")
}
