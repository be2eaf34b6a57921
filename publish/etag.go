package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// etagBodyLimit bounds how much of the body participates in the ETag.
// Edits past this window do not change the tag, which keeps hashing cheap
// for long posts while still catching every meaningful revision.
const etagBodyLimit = 2048

// etagPayload is hashed in a canonical form: fixed field order, compact
// separators, no dependence on wall-clock fields.
type etagPayload struct {
	Body string `json:"body"`
	URL  string `json:"url"`
	WC   int    `json:"wc"`
}

// ComputeETag derives the quoted entity tag for a package from its
// canonical URL, word count, and the leading window of the resolved body.
// The same inputs always produce the same tag.
func ComputeETag(canonicalURL string, wordCount int, body string) string {
	if runes := []rune(body); len(runes) > etagBodyLimit {
		body = string(runes[:etagBodyLimit])
	}

	encoded, err := json.Marshal(etagPayload{Body: body, URL: canonicalURL, WC: wordCount})
	if err != nil {
		// Marshalling three scalar fields cannot fail; guard anyway.
		encoded = []byte(canonicalURL)
	}

	sum := sha256.Sum256(encoded)
	return `"` + hex.EncodeToString(sum[:])[:16] + `"`
}
