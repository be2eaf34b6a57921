package markdown

import "strings"

// Placeholder tokens the upstream generator leaves behind when a section was
// never filled in. The bare prefix catches truncated variants.
var generatorPlaceholders = []string{
	"[AI_GENERATE_SEO_DESCRIPTION]",
	"[AI_GENERATE_LEAD]",
	"[AI_GENERATE",
}

// CleanPlaceholders removes generator placeholder tokens by literal
// substring removal and trims the result.
func CleanPlaceholders(text string) string {
	if text == "" {
		return ""
	}
	for _, token := range generatorPlaceholders {
		text = strings.ReplaceAll(text, token, "")
	}
	return strings.TrimSpace(text)
}
