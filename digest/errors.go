package digest

import "errors"

var (
	// ErrEmptyDocument indicates the digest source had no usable content.
	ErrEmptyDocument = errors.New("digest: document is empty")
	// ErrInvalidJSON indicates the digest payload was not valid JSON.
	ErrInvalidJSON = errors.New("digest: payload is not valid JSON")
	// ErrSchemaViolation indicates the payload parsed but failed validation
	// against the digest schema.
	ErrSchemaViolation = errors.New("digest: payload does not match schema")
	// ErrMissingDate indicates the digest has no date field to key on.
	ErrMissingDate = errors.New("digest: date is required")
)
