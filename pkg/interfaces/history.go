package interfaces

import (
	"context"
	"time"
)

// PublishStatus describes how far a daily digest has progressed through the
// build/publish lifecycle.
type PublishStatus string

const (
	// StatusMissing means no package has been built for the date.
	StatusMissing PublishStatus = "missing"
	// StatusDraft means a package was built but never pushed anywhere.
	StatusDraft PublishStatus = "draft"
	// StatusPublished means the package was pushed to its destination.
	StatusPublished PublishStatus = "published"
)

// PublishRecord is one row of publish history, keyed by digest date.
type PublishRecord struct {
	Date         string
	Title        string
	CanonicalURL string
	ETag         string
	CommitSHA    string
	RemoteURL    string
	BuiltAt      time.Time
	PublishedAt  *time.Time
}

// PublishHistory tracks which digests have been built and published so
// reruns can skip unchanged days and status tooling can report progress.
type PublishHistory interface {
	RecordBuild(ctx context.Context, rec PublishRecord) error
	RecordPublish(ctx context.Context, date, commitSHA, remoteURL string, at time.Time) error
	Get(ctx context.Context, date string) (*PublishRecord, error)
	Status(ctx context.Context, date string) (PublishStatus, error)
	List(ctx context.Context, limit int) ([]PublishRecord, error)
}
