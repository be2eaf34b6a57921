package publish

import "errors"

var (
	// ErrNilDigest indicates Build was called without a digest.
	ErrNilDigest = errors.New("publish: digest is nil")
	// ErrMissingBaseURL indicates the serializer was constructed without a
	// site base URL.
	ErrMissingBaseURL = errors.New("publish: site base URL is required")
)
