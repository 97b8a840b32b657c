// Package pages holds page objects: thin wrappers that give UI tests
// named operations over a Playwright page.
//
// Every operation waits at most the page object's timeout (10 seconds by
// default), logs what it did with the locator involved, and returns failures
// wrapped with that locator. Nothing is retried here; the step layer decides
// what a failure means.
package pages

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/uiharness/pkg/logging"
)

// DefaultTimeout is the wait applied by page objects unless configured otherwise.
const DefaultTimeout = 10 * time.Second

// BasePage holds the reusable operations shared by all page objects.
type BasePage struct {
	page    playwright.Page
	timeout time.Duration
	logger  *logging.Logger
}

// NewBasePage wraps page. A zero timeout means DefaultTimeout.
func NewBasePage(page playwright.Page, timeout time.Duration, logger *logging.Logger) *BasePage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.New("pages", io.Discard)
	}
	return &BasePage{
		page:    page,
		timeout: timeout,
		logger:  logger,
	}
}

// Timeout returns the wait applied to every operation.
func (p *BasePage) Timeout() time.Duration {
	return p.timeout
}

func (p *BasePage) timeoutMS() *float64 {
	return playwright.Float(float64(p.timeout / time.Millisecond))
}

func (p *BasePage) locate(l Locator) playwright.Locator {
	return p.page.Locator(l.Selector()).First()
}

// ---------- Waits ----------

// WaitVisible waits until the element is visible.
func (p *BasePage) WaitVisible(l Locator) (playwright.Locator, error) {
	loc := p.locate(l)
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeoutMS(),
	})
	if err != nil {
		p.logger.Errorf("Timeout waiting for element visible: %s", l)
		return nil, fmt.Errorf("wait for visible %s: %w", l, err)
	}
	p.logger.Infof("Element visible: %s", l)
	return loc, nil
}

// WaitClickable waits until the element is visible, enabled and able to
// receive a click, without clicking it.
func (p *BasePage) WaitClickable(l Locator) (playwright.Locator, error) {
	loc, err := p.WaitVisible(l)
	if err != nil {
		return nil, err
	}
	err = loc.Click(playwright.LocatorClickOptions{
		Trial:   playwright.Bool(true),
		Timeout: p.timeoutMS(),
	})
	if err != nil {
		p.logger.Errorf("Timeout waiting for element clickable: %s", l)
		return nil, fmt.Errorf("wait for clickable %s: %w", l, err)
	}
	p.logger.Infof("Element clickable: %s", l)
	return loc, nil
}

// ---------- Scroll ----------

// ScrollTo scrolls the element into the middle of the viewport if needed.
func (p *BasePage) ScrollTo(l Locator) error {
	err := p.locate(l).ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: p.timeoutMS(),
	})
	if err != nil {
		p.logger.Errorf("Element not found for scrolling: %s", l)
		return fmt.Errorf("scroll to %s: %w", l, err)
	}
	p.logger.Infof("Scrolled to element: %s", l)
	return nil
}

// ScrollPageDown scrolls to the bottom of the page.
func (p *BasePage) ScrollPageDown() error {
	if _, err := p.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
		return fmt.Errorf("scroll page down: %w", err)
	}
	p.logger.Infof("Scrolled page down")
	return nil
}

// ScrollPageUp scrolls to the top of the page.
func (p *BasePage) ScrollPageUp() error {
	if _, err := p.page.Evaluate("window.scrollTo(0, 0)"); err != nil {
		return fmt.Errorf("scroll page up: %w", err)
	}
	p.logger.Infof("Scrolled page up")
	return nil
}

// ---------- Click ----------

// Click scrolls to the element, waits until it is clickable and clicks it.
func (p *BasePage) Click(l Locator) error {
	err := p.click(l)
	if err != nil {
		p.logger.Errorf("Failed to click element: %s | %v", l, err)
		return err
	}
	p.logger.Infof("Clicked element: %s", l)
	return nil
}

func (p *BasePage) click(l Locator) error {
	if err := p.ScrollTo(l); err != nil {
		return err
	}
	loc, err := p.WaitClickable(l)
	if err != nil {
		return err
	}
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: p.timeoutMS()}); err != nil {
		return fmt.Errorf("click %s: %w", l, err)
	}
	return nil
}

// ---------- Type / Input ----------

// EnterText types text into an input, replacing its content when clearFirst is set.
func (p *BasePage) EnterText(l Locator, text string, clearFirst bool) error {
	if err := p.ScrollTo(l); err != nil {
		p.logger.Errorf("Unable to locate element for entering text: %s", l)
		return err
	}
	loc, err := p.WaitVisible(l)
	if err != nil {
		p.logger.Errorf("Unable to locate element for entering text: %s", l)
		return err
	}

	if clearFirst {
		err = loc.Fill(text, playwright.LocatorFillOptions{Timeout: p.timeoutMS()})
	} else {
		err = loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{Timeout: p.timeoutMS()})
	}
	if err != nil {
		p.logger.Errorf("Failed to enter text into element: %s | %v", l, err)
		return fmt.Errorf("enter text into %s: %w", l, err)
	}

	p.logger.Infof("Entered text into element: %s -> '%s'", l, text)
	return nil
}

// ---------- Getters ----------

// GetText returns the rendered text of the element.
func (p *BasePage) GetText(l Locator) (string, error) {
	loc, err := p.visible(l)
	if err != nil {
		p.logger.Errorf("Failed to get text from element: %s | %v", l, err)
		return "", err
	}
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: p.timeoutMS()})
	if err != nil {
		p.logger.Errorf("Failed to get text from element: %s | %v", l, err)
		return "", fmt.Errorf("get text of %s: %w", l, err)
	}
	p.logger.Infof("Got text from element: %s -> '%s'", l, text)
	return text, nil
}

// GetAttribute returns an attribute of the element.
func (p *BasePage) GetAttribute(l Locator, attribute string) (string, error) {
	loc, err := p.visible(l)
	if err != nil {
		p.logger.Errorf("Failed to get attribute from element: %s | %v", l, err)
		return "", err
	}
	value, err := loc.GetAttribute(attribute, playwright.LocatorGetAttributeOptions{Timeout: p.timeoutMS()})
	if err != nil {
		p.logger.Errorf("Failed to get attribute from element: %s | %v", l, err)
		return "", fmt.Errorf("get attribute %q of %s: %w", attribute, l, err)
	}
	p.logger.Infof("Got attribute '%s' from %s: %s", attribute, l, value)
	return value, nil
}

func (p *BasePage) visible(l Locator) (playwright.Locator, error) {
	if err := p.ScrollTo(l); err != nil {
		return nil, err
	}
	return p.WaitVisible(l)
}

// ---------- Check ----------

// IsDisplayed reports whether the element is visible. A missing element is
// not an error, just not displayed.
func (p *BasePage) IsDisplayed(l Locator) bool {
	if err := p.ScrollTo(l); err != nil {
		p.logger.Errorf("Element not found for displayed check: %s", l)
		return false
	}
	displayed, err := p.locate(l).IsVisible()
	if err != nil {
		p.logger.Errorf("Element not found for displayed check: %s", l)
		return false
	}
	p.logger.Infof("Element displayed check: %s -> %v", l, displayed)
	return displayed
}

// ---------- Pointer / Keyboard ----------

// Hover scrolls to the element and moves the mouse over it.
func (p *BasePage) Hover(l Locator) error {
	loc, err := p.visible(l)
	if err == nil {
		err = loc.Hover(playwright.LocatorHoverOptions{Timeout: p.timeoutMS()})
	}
	if err != nil {
		p.logger.Errorf("Hover failed: %s | %v", l, err)
		return fmt.Errorf("hover %s: %w", l, err)
	}
	p.logger.Infof("Hovered over element: %s", l)
	return nil
}

// PressKey presses a key on the focused element; an empty key means Enter.
func (p *BasePage) PressKey(key string) error {
	if key == "" {
		key = "Enter"
	}
	if err := p.page.Keyboard().Press(key); err != nil {
		p.logger.Errorf("Failed to press key: %s | %v", key, err)
		return fmt.Errorf("press key %s: %w", key, err)
	}
	p.logger.Infof("Pressed key: %s", key)
	return nil
}

// ---------- Navigation ----------

// OpenURL navigates to url.
func (p *BasePage) OpenURL(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{Timeout: p.timeoutMS()})
	if err != nil {
		p.logger.Errorf("Failed to open URL: %s | %v", url, err)
		return fmt.Errorf("open %s: %w", url, err)
	}
	p.logger.Infof("Opened URL: %s", url)
	return nil
}

// Title returns the current page title.
func (p *BasePage) Title() (string, error) {
	title, err := p.page.Title()
	if err != nil {
		return "", fmt.Errorf("get page title: %w", err)
	}
	p.logger.Infof("Page title: %s", title)
	return title, nil
}

// CurrentURL returns the current page URL.
func (p *BasePage) CurrentURL() string {
	url := p.page.URL()
	p.logger.Infof("Current URL: %s", url)
	return url
}

// Source returns the page's HTML.
func (p *BasePage) Source() (string, error) {
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("get page source: %w", err)
	}
	return content, nil
}

// PageText returns the visible text of the page.
func (p *BasePage) PageText() (string, error) {
	source, err := p.Source()
	if err != nil {
		return "", err
	}
	return VisibleText(source)
}
