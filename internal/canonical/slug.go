package canonical

import (
	"regexp"
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 60
	fallbackSlug  = "untitled"
)

var (
	slugDropPattern     = regexp.MustCompile(`[^\w\s-]`)
	slugCollapsePattern = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a post title into a URL-safe slug: unicode is decomposed
// to its ASCII skeleton, punctuation is dropped, whitespace and hyphen runs
// collapse to single hyphens, and the result is truncated to 60 characters
// with no trailing hyphen. Titles with no usable characters become
// "untitled" so the canonical URL is always well formed.
func Slugify(title string) string {
	value := norm.NFKD.String(title)
	value = stripNonASCII(value)
	value = slugDropPattern.ReplaceAllString(value, "")
	value = strings.ToLower(strings.TrimSpace(value))
	value = slugCollapsePattern.ReplaceAllString(value, "-")

	if len(value) > maxSlugLength {
		value = value[:maxSlugLength]
	}
	value = strings.Trim(value, "-")

	if value == "" {
		return normalizedFallback(title)
	}
	return value
}

// normalizedFallback gives the shared normalizer one chance to produce a
// slug before giving up on the title entirely.
func normalizedFallback(title string) string {
	if normalized, err := goslug.Normalize(title); err == nil {
		normalized = strings.Trim(normalized, "-")
		if len(normalized) > maxSlugLength {
			normalized = strings.Trim(normalized[:maxSlugLength], "-")
		}
		if normalized != "" && goslug.IsValid(normalized) {
			return normalized
		}
	}
	return fallbackSlug
}

func stripNonASCII(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
