package pages

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// VisibleText returns the human-readable text of an HTML document, with
// scripts, styles and other non-rendered elements removed and whitespace collapsed.
func VisibleText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	collectText(doc, &parts)
	return strings.Join(parts, " "), nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isSkippedElement(strings.ToLower(n.Data)) {
		return
	}

	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*parts = append(*parts, text)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// isSkippedElement checks if an element should be skipped entirely
func isSkippedElement(tagName string) bool {
	skipped := map[string]bool{
		"script":   true,
		"style":    true,
		"noscript": true,
		"iframe":   true,
		"svg":      true,
		"canvas":   true,
		"template": true,
	}
	return skipped[tagName]
}
