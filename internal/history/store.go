// Package history persists build and publish records for daily digests so
// reruns can detect unchanged days and status tooling can report progress.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-devlog/internal/logging"
	"github.com/goliatone/go-devlog/pkg/interfaces"
)

// ErrNotFound indicates no history row exists for the requested date.
var ErrNotFound = errors.New("history: record not found")

type publishRecord struct {
	bun.BaseModel `bun:"table:publish_history"`

	Date         string     `bun:"date,pk"`
	Title        string     `bun:"title"`
	CanonicalURL string     `bun:"canonical_url"`
	ETag         string     `bun:"etag"`
	CommitSHA    string     `bun:"commit_sha,nullzero"`
	RemoteURL    string     `bun:"remote_url,nullzero"`
	BuiltAt      time.Time  `bun:"built_at"`
	PublishedAt  *time.Time `bun:"published_at,nullzero"`
}

// Store is a bun-backed publish history keyed by digest date.
type Store struct {
	db     *bun.DB
	logger interfaces.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger to the store.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

var _ interfaces.PublishHistory = (*Store)(nil)

// NewStore constructs a history store on the provided bun handle.
func NewStore(db *bun.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:     db,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the history table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*publishRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("history: ensure schema: %w", err)
	}
	return nil
}

// RecordBuild upserts the build row for a date. Rebuilding a day refreshes
// the title, URL, etag, and build time but keeps any publish columns.
func (s *Store) RecordBuild(ctx context.Context, rec interfaces.PublishRecord) error {
	date := strings.TrimSpace(rec.Date)
	if date == "" {
		return fmt.Errorf("history: record build: date is required")
	}

	builtAt := rec.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}

	model := &publishRecord{
		Date:         date,
		Title:        rec.Title,
		CanonicalURL: rec.CanonicalURL,
		ETag:         rec.ETag,
		BuiltAt:      builtAt,
	}

	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (date) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("canonical_url = EXCLUDED.canonical_url").
		Set("etag = EXCLUDED.etag").
		Set("built_at = EXCLUDED.built_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("history: record build: %w", err)
	}

	s.logger.Debug("history.build.recorded", "date", date, "etag", rec.ETag)
	return nil
}

// RecordPublish marks a built date as published.
func (s *Store) RecordPublish(ctx context.Context, date, commitSHA, remoteURL string, at time.Time) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return fmt.Errorf("history: record publish: date is required")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	res, err := s.db.NewUpdate().
		Model((*publishRecord)(nil)).
		Set("commit_sha = ?", commitSHA).
		Set("remote_url = ?", remoteURL).
		Set("published_at = ?", at).
		Where("date = ?", date).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("history: record publish: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("history.publish.recorded", "date", date, "commit_sha", commitSHA)
	return nil
}

// Get returns the history row for a date.
func (s *Store) Get(ctx context.Context, date string) (*interfaces.PublishRecord, error) {
	var model publishRecord
	err := s.db.NewSelect().
		Model(&model).
		Where("date = ?", strings.TrimSpace(date)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("history: get %s: %w", date, err)
	}
	return toRecord(model), nil
}

// Status reports the lifecycle status for a date: missing when no build ran,
// draft when built but never published, published otherwise.
func (s *Store) Status(ctx context.Context, date string) (interfaces.PublishStatus, error) {
	rec, err := s.Get(ctx, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return interfaces.StatusMissing, nil
		}
		return "", err
	}
	if rec.PublishedAt == nil {
		return interfaces.StatusDraft, nil
	}
	return interfaces.StatusPublished, nil
}

// List returns the most recent history rows, newest date first.
func (s *Store) List(ctx context.Context, limit int) ([]interfaces.PublishRecord, error) {
	if limit <= 0 {
		limit = 30
	}

	var models []publishRecord
	err := s.db.NewSelect().
		Model(&models).
		Order("date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}

	out := make([]interfaces.PublishRecord, 0, len(models))
	for _, model := range models {
		out = append(out, *toRecord(model))
	}
	return out, nil
}

func toRecord(model publishRecord) *interfaces.PublishRecord {
	return &interfaces.PublishRecord{
		Date:         model.Date,
		Title:        model.Title,
		CanonicalURL: model.CanonicalURL,
		ETag:         model.ETag,
		CommitSHA:    model.CommitSHA,
		RemoteURL:    model.RemoteURL,
		BuiltAt:      model.BuiltAt,
		PublishedAt:  model.PublishedAt,
	}
}
