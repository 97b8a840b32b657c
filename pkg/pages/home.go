package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/logging"
)

// HomePage is the landing page of the application under test.
type HomePage struct {
	*BasePage
	url string
}

// NewHomePage creates a home page object for url.
func NewHomePage(page playwright.Page, url string, timeout time.Duration, logger *logging.Logger) *HomePage {
	return &HomePage{
		BasePage: NewBasePage(page, timeout, logger),
		url:      url,
	}
}

// URL returns the address the page object opens.
func (h *HomePage) URL() string {
	return h.url
}

// Open navigates to the home page.
func (h *HomePage) Open() error {
	return h.OpenURL(h.url)
}

// ValidateTitle waits for the document title to equal expected and fails
// with both titles when it does not within the timeout.
func (h *HomePage) ValidateTitle(expected string) error {
	_, waitErr := h.page.WaitForFunction(
		"expected => document.title === expected",
		expected,
		playwright.PageWaitForFunctionOptions{Timeout: h.timeoutMS()},
	)

	actual, err := h.Title()
	if err != nil {
		return err
	}
	h.logger.Infof("Actual title: %s, Expected title: %s", actual, expected)

	if waitErr != nil && actual != expected {
		h.logger.Errorf("Title did not match expected '%s' within the timeout period.", expected)
		return fmt.Errorf("title mismatch: expected '%s', but got '%s': %w", expected, actual, waitErr)
	}
	if actual != expected {
		h.logger.Errorf("Title mismatch: expected '%s', but got '%s'", expected, actual)
		return fmt.Errorf("title mismatch: expected '%s', but got '%s'", expected, actual)
	}

	h.logger.Infof("Title validation passed.")
	return nil
}
