// Package publishcmd exposes the build and publish operations as validated
// command messages so hosts can dispatch them through go-command.
package publishcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-devlog/digest"
	"github.com/goliatone/go-devlog/internal/commands"
	"github.com/goliatone/go-devlog/pkg/interfaces"
	"github.com/goliatone/go-devlog/publish"
)

const (
	buildPackageMessageType   = "devlog.package.build"
	publishPackageMessageType = "devlog.package.publish"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BuildPackageCommand requests a publish package build for one digest.
type BuildPackageCommand struct {
	Date   string         `json:"date"`
	Digest *digest.Digest `json:"digest"`
}

// Type implements command.Message.
func (BuildPackageCommand) Type() string { return buildPackageMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m BuildPackageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Digest == nil {
		errs["digest"] = validation.NewError("devlog.package.build.digest_required", "digest is required")
	}
	if !datePattern.MatchString(m.Date) {
		errs["date"] = validation.NewError("devlog.package.build.date_invalid", "date must be YYYY-MM-DD")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BuildPackageHandler builds packages via the serializer and records the
// build in publish history when a store is configured.
type BuildPackageHandler struct {
	inner *commands.Handler[BuildPackageCommand]
}

// NewBuildPackageHandler constructs a handler wired to the provided
// serializer. The sink receives every successfully built package; history
// may be nil.
func NewBuildPackageHandler(
	serializer *publish.Serializer,
	history interfaces.PublishHistory,
	sink func(*publish.Package),
	logger interfaces.Logger,
	opts ...commands.HandlerOption[BuildPackageCommand],
) *BuildPackageHandler {
	exec := func(ctx context.Context, msg BuildPackageCommand) error {
		pkg, err := serializer.Build(msg.Digest)
		if err != nil {
			return err
		}

		if history != nil {
			rec := interfaces.PublishRecord{
				Date:         msg.Date,
				Title:        pkg.Content.Title,
				CanonicalURL: pkg.URL,
				ETag:         pkg.Headers.ETag,
				BuiltAt:      time.Now().UTC(),
			}
			if err := history.RecordBuild(ctx, rec); err != nil {
				return err
			}
		}

		if sink != nil {
			sink(pkg)
		}
		return nil
	}

	defaults := []commands.HandlerOption[BuildPackageCommand]{
		commands.WithLogger[BuildPackageCommand](logger),
		commands.WithOperation[BuildPackageCommand]("package.build"),
		commands.WithMessageFields(func(msg BuildPackageCommand) map[string]any {
			if msg.Date == "" {
				return nil
			}
			return map[string]any{"digest_date": msg.Date}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildPackageCommand](logger)),
	}
	return &BuildPackageHandler{
		inner: commands.NewHandler(exec, append(defaults, opts...)...),
	}
}

// Execute conforms to command.Commander.
func (h *BuildPackageHandler) Execute(ctx context.Context, msg BuildPackageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishPackageCommand requests pushing a built package to the configured
// publisher destination.
type PublishPackageCommand struct {
	Date    string           `json:"date"`
	Message string           `json:"message,omitempty"`
	Package *publish.Package `json:"package"`
}

// Type implements command.Message.
func (PublishPackageCommand) Type() string { return publishPackageMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishPackageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Package == nil {
		errs["package"] = validation.NewError("devlog.package.publish.package_required", "package is required")
	}
	if !datePattern.MatchString(m.Date) {
		errs["date"] = validation.NewError("devlog.package.publish.date_invalid", "date must be YYYY-MM-DD")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishPackageHandler pushes packages through the Publisher collaborator,
// then best-effort purges caches and notifies. Purge and notify failures
// are logged, not returned; the publish itself already happened.
type PublishPackageHandler struct {
	inner *commands.Handler[PublishPackageCommand]
}

// NewPublishPackageHandler constructs a handler over the publish collaborators.
func NewPublishPackageHandler(
	publisher interfaces.Publisher,
	purger interfaces.CachePurger,
	notifier interfaces.Notifier,
	history interfaces.PublishHistory,
	logger interfaces.Logger,
	opts ...commands.HandlerOption[PublishPackageCommand],
) *PublishPackageHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg PublishPackageCommand) error {
		if publisher == nil {
			return fmt.Errorf("publishcmd: no publisher configured")
		}

		encoded, err := json.MarshalIndent(msg.Package, "", "  ")
		if err != nil {
			return fmt.Errorf("publishcmd: encode package: %w", err)
		}

		message := msg.Message
		if message == "" {
			message = fmt.Sprintf("Publish devlog for %s", msg.Date)
		}

		result, err := publisher.Publish(ctx, interfaces.PublishRequest{
			Date:    msg.Date,
			Title:   msg.Package.Content.Title,
			Message: message,
			Files: map[string][]byte{
				fmt.Sprintf("blog/%s.json", msg.Date): encoded,
			},
		})
		if err != nil {
			return err
		}

		if history != nil {
			if err := history.RecordPublish(ctx, msg.Date, result.CommitSHA, result.RemoteURL, time.Now().UTC()); err != nil {
				return err
			}
		}

		if purger != nil {
			if err := purger.Purge(ctx, []string{msg.Package.URL}); err != nil {
				logger.Warn("publishcmd.purge.failed", "error", err, "url", msg.Package.URL)
			}
		}
		if notifier != nil {
			subject := fmt.Sprintf("Published: %s", msg.Package.Content.Title)
			if err := notifier.Notify(ctx, subject, msg.Package.URL); err != nil {
				logger.Warn("publishcmd.notify.failed", "error", err)
			}
		}
		return nil
	}

	defaults := []commands.HandlerOption[PublishPackageCommand]{
		commands.WithLogger[PublishPackageCommand](logger),
		commands.WithOperation[PublishPackageCommand]("package.publish"),
		commands.WithMessageFields(func(msg PublishPackageCommand) map[string]any {
			fields := map[string]any{}
			if msg.Date != "" {
				fields["digest_date"] = msg.Date
			}
			if msg.Package != nil && msg.Package.URL != "" {
				fields["canonical_url"] = msg.Package.URL
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishPackageCommand](logger)),
	}
	return &PublishPackageHandler{
		inner: commands.NewHandler(exec, append(defaults, opts...)...),
	}
}

// Execute conforms to command.Commander.
func (h *PublishPackageHandler) Execute(ctx context.Context, msg PublishPackageCommand) error {
	return h.inner.Execute(ctx, msg)
}
