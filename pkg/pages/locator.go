package pages

import (
	"fmt"
	"strings"
)

// By names a locating strategy.
type By string

const (
	ByCSS   By = "css"
	ByID    By = "id"
	ByName  By = "name"
	ByXPath By = "xpath"
	ByText  By = "text"
)

// Locator identifies an element on a page.
type Locator struct {
	By    By
	Value string
}

// CSS, ID, Name, XPath and Text build locators.
func CSS(v string) Locator   { return Locator{By: ByCSS, Value: v} }
func ID(v string) Locator    { return Locator{By: ByID, Value: v} }
func Name(v string) Locator  { return Locator{By: ByName, Value: v} }
func XPath(v string) Locator { return Locator{By: ByXPath, Value: v} }
func Text(v string) Locator  { return Locator{By: ByText, Value: v} }

// Selector converts the locator to a Playwright selector.
func (l Locator) Selector() string {
	switch l.By {
	case ByID:
		return fmt.Sprintf(`[id="%s"]`, escapeAttr(l.Value))
	case ByName:
		return fmt.Sprintf(`[name="%s"]`, escapeAttr(l.Value))
	case ByXPath:
		return "xpath=" + l.Value
	case ByText:
		return "text=" + l.Value
	default:
		return l.Value
	}
}

// String renders the locator for log lines and errors.
func (l Locator) String() string {
	by := l.By
	if by == "" {
		by = ByCSS
	}
	return fmt.Sprintf("(%s, %q)", by, l.Value)
}

func escapeAttr(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}
