package interfaces

import "context"

// PublishRequest carries the rendered artifacts a Publisher pushes to its
// destination. Paths are destination-relative; content is the final bytes.
type PublishRequest struct {
	Date    string
	Title   string
	Message string
	Files   map[string][]byte
}

// PublishResult reports where the publish landed so callers can record it.
type PublishResult struct {
	CommitSHA string
	RemoteURL string
	Created   bool
}

// Publisher pushes a built publish package (and any sidecar files) to an
// external destination such as a git repository or object store.
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

// CachePurger invalidates previously served copies of a set of URLs after a
// publish. Implementations wrap CDN or edge-cache APIs.
type CachePurger interface {
	Purge(ctx context.Context, urls []string) error
}

// Notifier announces publish outcomes to an external channel (chat webhook,
// email, etc). Failures should be surfaced but are not fatal to a publish.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}
