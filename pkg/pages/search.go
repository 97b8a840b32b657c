package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/logging"
)

// DefaultSearchURL is opened by SearchPage when no URL is configured.
const DefaultSearchURL = "https://www.google.com"

var (
	searchBox     = Name("q")
	searchResults = ID("search")
)

// SearchPage drives a search engine front page and its results.
type SearchPage struct {
	*BasePage
	url string
}

// NewSearchPage creates a search page object. An empty url means DefaultSearchURL.
func NewSearchPage(page playwright.Page, url string, timeout time.Duration, logger *logging.Logger) *SearchPage {
	if url == "" {
		url = DefaultSearchURL
	}
	return &SearchPage{
		BasePage: NewBasePage(page, timeout, logger),
		url:      url,
	}
}

// URL returns the address the page object opens.
func (s *SearchPage) URL() string {
	return s.url
}

// Open navigates to the search page and waits for the search box.
func (s *SearchPage) Open() error {
	if err := s.OpenURL(s.url); err != nil {
		return err
	}
	_, err := s.WaitVisible(searchBox)
	return err
}

// SearchFor submits text and waits for the results container.
func (s *SearchPage) SearchFor(text string) error {
	if _, err := s.WaitClickable(searchBox); err != nil {
		return err
	}
	if err := s.EnterText(searchBox, text, true); err != nil {
		return err
	}
	if err := s.PressKey("Enter"); err != nil {
		return err
	}

	err := s.locate(searchResults).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: s.timeoutMS(),
	})
	if err != nil {
		s.logger.Errorf("Search results did not load for '%s'", text)
		return fmt.Errorf("wait for search results %s: %w", searchResults, err)
	}
	return nil
}

// Content returns the visible text of the current page, used to check that
// results mention the search term.
func (s *SearchPage) Content() (string, error) {
	return s.PageText()
}
