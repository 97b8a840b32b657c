package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/config"
	"github.com/entrhq/uiharness/pkg/logging"
)

// Manager owns the Playwright instance and the per-module browser sessions.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	opts        Options
	logger      *logging.Logger
	initialized bool
}

// NewManager creates a new session manager.
func NewManager(opts Options, logger *logging.Logger) *Manager {
	if opts.Engine == "" {
		opts.Engine = config.EngineChromium
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Screen.Width <= 0 || opts.Screen.Height <= 0 {
		opts.Screen = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if logger == nil {
		logger = logging.New("browser", io.Discard)
	}

	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger,
	}
}

// Initialize starts the Playwright driver, installing it and the configured
// browser first when Options.Install is set.
// This must be called before acquiring any session.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Keep driver chatter out of the console; our own logger reports progress
	runOpts := &playwright.RunOptions{
		Browsers: []string{string(m.opts.Engine)},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if m.opts.Install {
		m.logger.Infof("installing playwright driver and %s", m.opts.Engine)
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Acquire launches the browser session for a test module.
// Launch errors are returned as-is; there is no retry and no fallback engine.
func (m *Manager) Acquire(ctx context.Context, module string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := m.StartSession(module)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Release closes the browser session of a test module.
func (m *Manager) Release(module string) error {
	return m.CloseSession(module)
}

// StartSession creates a new browser session with the given name.
func (m *Manager) StartSession(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if !m.initialized {
		return nil, ErrNotInitialized
	}

	browserType, err := m.browserType()
	if err != nil {
		return nil, err
	}

	launchOpts, contextOpts := launchSettings(m.opts)

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(m.opts.Timeout)

	session := &Session{
		Name:      name,
		Browser:   browser,
		Context:   bctx,
		Page:      page,
		Headless:  m.opts.Headless,
		CreatedAt: time.Now(),
	}

	m.sessions[name] = session
	m.logger.Infof("browser session %q started (%s, headless=%v)", name, m.opts.Engine, m.opts.Headless)
	return session, nil
}

// CloseSession closes and removes a browser session.
// The session is forgotten even when closing one of its resources fails.
func (m *Manager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}
	delete(m.sessions, name)

	if err := session.close(); err != nil {
		m.logger.Warnf("%v", err)
		return err
	}
	m.logger.Infof("browser session %q closed", name)
	return nil
}

// HasSessions returns true if there are any active sessions.
func (m *Manager) HasSessions() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions) > 0
}

// Shutdown closes all sessions and stops Playwright.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		if err := session.close(); err != nil {
			m.logger.Warnf("%v", err)
		}
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	return nil
}

func (m *Manager) browserType() (playwright.BrowserType, error) {
	switch m.opts.Engine {
	case config.EngineChromium:
		return m.playwright.Chromium, nil
	case config.EngineFirefox:
		return m.playwright.Firefox, nil
	case config.EngineWebKit:
		return m.playwright.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser engine: %s", m.opts.Engine)
	}
}

// launchSettings builds the launch and context options for a session.
func launchSettings(opts Options) (playwright.BrowserTypeLaunchOptions, playwright.BrowserNewContextOptions) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	contextOpts := playwright.BrowserNewContextOptions{}

	switch {
	case opts.Maximize && !opts.Headless && opts.Engine == config.EngineChromium:
		// Native maximize; the window decides the viewport
		launchOpts.Args = []string{"--start-maximized"}
		contextOpts.NoViewport = playwright.Bool(true)
	case opts.Maximize:
		contextOpts.Viewport = &playwright.Size{
			Width:  opts.Screen.Width,
			Height: opts.Screen.Height,
		}
	default:
		contextOpts.Viewport = &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}

	return launchOpts, contextOpts
}
