package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/uiharness/pkg/bdd"
	"github.com/entrhq/uiharness/pkg/config"
	"github.com/entrhq/uiharness/pkg/harness"
	"github.com/entrhq/uiharness/pkg/steps"
)

func loadConfig(cmd *cobra.Command, flags *Flags) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.EnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	flags.apply(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadModules loads the feature files with the bundled steps and keeps the selected tests.
func loadModules(cfg *config.Config) ([]harness.Module, *harness.Selector, error) {
	registry := bdd.NewRegistry()
	steps.Register(registry, cfg.Pages)

	modules, err := bdd.LoadDir(cfg.Features.Dir, registry)
	if err != nil {
		return nil, nil, err
	}

	selector, err := harness.NewSelector(cfg.Features.Include, cfg.Features.Exclude)
	if err != nil {
		return nil, nil, err
	}
	return selector.Filter(modules), selector, nil
}
