package digest

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-devlog/internal/markdown"
)

// Content is the normalized editorial payload extracted from a digest,
// whichever historical shape it arrived in.
type Content struct {
	Title   string
	Summary string
	Body    string
	Tags    []string
}

// contentObject is the structured variant of the digest content field.
type contentObject struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

func (f *Frontmatter) hasMetadata() bool {
	return f != nil && (f.Title != "" || f.Description != "" || f.Lead != "" || len(f.Tags) > 0)
}

// ExtractContent normalizes the digest's editorial fields. Metadata comes
// from exactly one shape, in priority order: frontmatter, the top-level
// fields, then the content object. Fields are never merged across shapes.
// The body is taken from the first populated source in a fixed priority
// order: content.body, markdown_body, content as a plain string, then
// articleBody. Generator placeholders are stripped from every extracted
// field.
func (d *Digest) ExtractContent() Content {
	out := Content{}
	if d == nil {
		return out
	}

	bodyStr, obj := d.decodeContent()

	switch {
	case d.Frontmatter != nil && d.Frontmatter.hasMetadata():
		fm := d.Frontmatter
		out.Title = fm.Title
		out.Summary = fm.Description
		if out.Summary == "" {
			out.Summary = fm.Lead
		}
		out.Tags = fm.Tags
	case d.Title != "" || d.Description != "" || len(d.Tags) > 0:
		out.Title = d.Title
		out.Summary = d.Description
		out.Tags = d.Tags
	case obj != nil:
		out.Title = obj.Title
		out.Summary = obj.Summary
		if out.Summary == "" {
			out.Summary = obj.Description
		}
		out.Tags = obj.Tags
	}

	switch {
	case obj != nil && obj.Body != "":
		out.Body = obj.Body
	case d.MarkdownBody != "":
		out.Body = d.MarkdownBody
	case bodyStr != "":
		out.Body = bodyStr
	case d.ArticleBody != "":
		out.Body = d.ArticleBody
	}

	out.Title = markdown.CleanPlaceholders(out.Title)
	out.Summary = markdown.CleanPlaceholders(out.Summary)
	out.Body = markdown.CleanPlaceholders(out.Body)

	return out
}

// decodeContent resolves the polymorphic content field into its string or
// object variant. Malformed payloads degrade to neither.
func (d *Digest) decodeContent() (string, *contentObject) {
	raw := d.Content
	if len(raw) == 0 {
		return "", nil
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, nil
		}
		return "", nil
	}

	var obj contentObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		return "", &obj
	}
	return "", nil
}
