// Package config holds the run configuration of the UI harness.
//
// Configuration is read from a YAML file (uiharness.yaml by default), filled in
// with DefaultConfig values for anything left unset, and validated once before
// the run starts. After initialization the configuration is only read.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "uiharness.yaml"

// Config represents the configuration of a harness run
type Config struct {
	// Descriptive metadata shown in the report
	Project     string `yaml:"project" json:"project"`
	Environment string `yaml:"environment" json:"environment"`

	Browser  BrowserConfig `yaml:"browser" json:"browser"`
	Pages    PagesConfig   `yaml:"pages" json:"pages"`
	Report   ReportConfig  `yaml:"report" json:"report"`
	Features FeatureConfig `yaml:"features" json:"features"`
	Logging  LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserEngine names a playwright browser type.
type BrowserEngine string

const (
	EngineChromium BrowserEngine = "chromium"
	EngineFirefox  BrowserEngine = "firefox"
	EngineWebKit   BrowserEngine = "webkit"
)

// BrowserConfig defines how the per-module browser session is launched
type BrowserConfig struct {
	Engine BrowserEngine `yaml:"engine" json:"engine"`
	// Label is the browser name written to the report metadata
	Label    string `yaml:"label" json:"label"`
	Headless bool   `yaml:"headless" json:"headless"`
	Maximize bool   `yaml:"maximize" json:"maximize"`
	// Screen size used as the maximized viewport when running headless
	ScreenWidth  int `yaml:"screen_width" json:"screen_width"`
	ScreenHeight int `yaml:"screen_height" json:"screen_height"`
	// Install downloads the browser binaries before the first launch
	Install bool `yaml:"install" json:"install"`
	// Timeout is the default playwright operation timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// PagesConfig configures the page objects
type PagesConfig struct {
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	HomeURL     string        `yaml:"home_url" json:"home_url"`
	SearchURL   string        `yaml:"search_url" json:"search_url"`
}

// ReportConfig defines where and how the HTML report is written
type ReportConfig struct {
	Dir   string `yaml:"dir" json:"dir"`
	Title string `yaml:"title" json:"title"`
}

// FeatureConfig selects the scenarios to run
type FeatureConfig struct {
	Dir     string   `yaml:"dir" json:"dir"`
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Project:     "UI Harness BDD",
		Environment: "QA",
		Browser: BrowserConfig{
			Engine:       EngineChromium,
			Label:        "Chrome",
			Headless:     true,
			Maximize:     true,
			ScreenWidth:  1920,
			ScreenHeight: 1080,
			Timeout:      30 * time.Second,
		},
		Pages: PagesConfig{
			WaitTimeout: 10 * time.Second,
			HomeURL:     "https://parabank.parasoft.com/parabank/index.htm",
			SearchURL:   "https://www.google.com",
		},
		Report: ReportConfig{
			Dir:   "reports",
			Title: "UI Harness BDD Automation Report",
		},
		Features: FeatureConfig{
			Dir: "features",
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads a YAML configuration file on top of DefaultConfig.
// A missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project name is required")
	}

	switch c.Browser.Engine {
	case EngineChromium, EngineFirefox, EngineWebKit:
	default:
		return fmt.Errorf("invalid browser engine: %s (must be 'chromium', 'firefox', or 'webkit')", c.Browser.Engine)
	}

	if c.Browser.Maximize && (c.Browser.ScreenWidth <= 0 || c.Browser.ScreenHeight <= 0) {
		return fmt.Errorf("screen size must be positive when maximize is enabled")
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser timeout cannot be negative")
	}

	if c.Pages.WaitTimeout <= 0 {
		return fmt.Errorf("pages wait_timeout must be positive")
	}

	if c.Report.Dir == "" {
		return fmt.Errorf("report directory is required")
	}

	if c.Features.Dir == "" {
		return fmt.Errorf("features directory is required")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}
