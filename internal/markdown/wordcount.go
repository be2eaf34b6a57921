package markdown

import (
	"html"
	"regexp"
	"strings"
)

// Patterns applied in order to reduce markdown to readable prose before
// counting. Code spans and fences contribute no words; link labels do.
var (
	codeSpanPattern  = regexp.MustCompile("(?s)`{1,3}.*?`{1,3}")
	imagePattern     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	headingPattern   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisPattern  = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	whitespaceSquash = regexp.MustCompile(`\s+`)
)

// WordCount counts the readable words in a markdown body. Code spans and
// fenced blocks, image syntax, raw HTML tags, and heading markers are
// stripped first; link and emphasis text survives. HTML entities are decoded
// before splitting so "&amp;" counts as one word, not three tokens.
func WordCount(body string) int {
	text := StripMarkdown(body)
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// StripMarkdown reduces a markdown body to plain prose.
func StripMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	text := codeSpanPattern.ReplaceAllString(body, " ")
	text = imagePattern.ReplaceAllString(text, " ")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = headingPattern.ReplaceAllString(text, "")
	text = emphasisPattern.ReplaceAllString(text, "$1")
	text = whitespaceSquash.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	return strings.TrimSpace(text)
}
