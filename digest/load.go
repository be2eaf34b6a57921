package digest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Parse decodes and validates a JSON digest payload. The payload is checked
// against the digest schema before it is bound to the typed structure, so a
// returned Digest always has a well-formed date and entity lists.
func Parse(data []byte) (*Digest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := ValidatePayload(payload); err != nil {
		return nil, err
	}

	var d Digest
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if strings.TrimSpace(d.Date) == "" {
		return nil, ErrMissingDate
	}
	return &d, nil
}

// ParseDocument builds a digest from a markdown document with a YAML
// frontmatter header, the legacy source format. The body becomes the
// markdown body and the header becomes the frontmatter shape; the date is
// taken from the header.
func ParseDocument(source []byte) (*Digest, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptyDocument
	}

	var meta Frontmatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("digest: parse frontmatter: %w", err)
	}

	date := strings.TrimSpace(meta.Date)
	if len(date) >= 10 {
		date = date[:10]
	}
	if date == "" {
		return nil, ErrMissingDate
	}

	return &Digest{
		Date:         date,
		Frontmatter:  &meta,
		MarkdownBody: strings.TrimSpace(string(body)),
	}, nil
}
