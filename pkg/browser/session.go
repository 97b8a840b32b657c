package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Driver returns the session's active page.
func (s *Session) Driver() playwright.Page {
	return s.Page
}

// URL returns the URL of the session's active page.
func (s *Session) URL() string {
	if s.Page == nil {
		return ""
	}
	return s.Page.URL()
}

// SaveScreenshot captures the visible part of the page as a PNG file at path.
func (s *Session) SaveScreenshot(path string) error {
	if s.Page == nil {
		return fmt.Errorf("session %q has no page", s.Name)
	}

	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// close releases the page, context and browser, in that order, and reports
// every failure instead of stopping at the first.
func (s *Session) close() error {
	var errs []error
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("page: %w", err))
		}
	}
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("context: %w", err))
		}
	}
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("browser: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing session %q: %v", s.Name, errs)
	}
	return nil
}
