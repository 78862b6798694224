package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// stripHTMLToText extracts the visible text of a markup fragment.
// Text nodes are joined by single spaces, whitespace runs collapsed,
// ends trimmed. Never fails: unparseable input falls back to regex
// stripping.
func stripHTMLToText(s string) string {
	if s == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return stripHTMLFallback(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)

	return strings.TrimSpace(collapseWhitespace(buf.String()))
}

// extractText recursively collects text content from HTML nodes.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		buf.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
}

// stripHTMLFallback uses regex when parsing fails.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripHTMLFallback(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(collapseWhitespace(s))
}

// collapseWhitespace replaces whitespace runs with a single space.
var whitespaceRegex = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// wordCount counts non-empty whitespace-separated tokens.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// countSignalPhrases counts how many of the given phrases occur in the
// raw markup, case-insensitively. Matching is plain substring search,
// not word-boundary, so a phrase embedded in a longer word still
// counts; each phrase counts at most once.
func countSignalPhrases(markup string, phrases []string) int {
	s := strings.ToLower(markup)
	count := 0
	for _, p := range phrases {
		if strings.Contains(s, p) {
			count++
		}
	}
	return count
}
