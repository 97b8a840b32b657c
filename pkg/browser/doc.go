// Package browser manages the browser sessions that UI tests drive through Playwright.
//
// A Manager owns one Playwright instance for the whole run and hands out one
// Session per test module. The runner acquires a module's session before the
// first test that asks for it and releases it after the module's last test,
// whatever the outcome of the tests in between.
//
// # Session Lifecycle
//
//  1. Initialize: install (optionally) and start the Playwright driver once per process
//  2. Acquire: launch a browser, open a context and a page, maximize the viewport
//  3. Use: page objects drive Session.Driver(); the failure hook reads URL and screenshots
//  4. Release: close page, context and browser; errors are collected, never retried
//  5. Shutdown: release anything left over and stop Playwright
//
// # Maximized Viewport
//
// Headed Chromium is started with --start-maximized and no fixed viewport so the
// window fills the screen. Headless runs, and the other engines, get a viewport
// the size of the configured screen instead.
//
// # Example Usage
//
//	manager := browser.NewManager(browser.OptionsFromConfig(cfg.Browser), logger)
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.Acquire(ctx, "para_home_page")
//	...
//	err = manager.Release("para_home_page")
package browser
