package anchors

import "errors"

var (
	// ErrEmptyDomains indicates the embed domain list was empty or contained
	// only separators.
	ErrEmptyDomains = errors.New("anchors: embed domain list is empty")
	// ErrInvalidDomain indicates an embed domain entry failed validation.
	ErrInvalidDomain = errors.New("anchors: invalid embed domain")
	// ErrInvalidClipURL indicates a clip URL cannot be embedded.
	ErrInvalidClipURL = errors.New("anchors: clip URL is not embeddable")
)
