package browser

import (
	"errors"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/config"
)

// ErrNotInitialized is returned when a session is requested before Initialize.
var ErrNotInitialized = errors.New("session manager not initialized")

// Handle is the view of a browser session shared with tests and listeners.
type Handle interface {
	// Driver returns the page that page objects operate on
	Driver() playwright.Page

	// URL returns the current navigation location
	URL() string

	// SaveScreenshot writes a PNG screenshot of the current page to path
	SaveScreenshot(path string) error
}

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session, the owning module's name
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time
}

// Options configures how sessions are launched.
type Options struct {
	// Engine selects the Playwright browser type
	Engine config.BrowserEngine

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Maximize makes the viewport fill the screen
	Maximize bool

	// Screen is the viewport used when the window cannot be maximized natively
	Screen Viewport

	// Timeout sets the default timeout for page operations (in milliseconds)
	Timeout float64

	// Install downloads the driver and browser binaries on Initialize
	Install bool
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for session options
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// OptionsFromConfig converts the browser section of the run configuration.
func OptionsFromConfig(cfg config.BrowserConfig) Options {
	return Options{
		Engine:   cfg.Engine,
		Headless: cfg.Headless,
		Maximize: cfg.Maximize,
		Screen: Viewport{
			Width:  cfg.ScreenWidth,
			Height: cfg.ScreenHeight,
		},
		Timeout: float64(cfg.Timeout / time.Millisecond),
		Install: cfg.Install,
	}
}
