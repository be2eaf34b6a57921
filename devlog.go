// Package devlog turns daily development digests into publish-ready blog
// packages: canonical URLs, resolved anchors, schema.org metadata, and
// deterministic cache headers.
package devlog

import (
	"context"

	"github.com/goliatone/go-devlog/digest"
	"github.com/goliatone/go-devlog/internal/commands/publishcmd"
	"github.com/goliatone/go-devlog/internal/di"
	"github.com/goliatone/go-devlog/internal/logging"
	"github.com/goliatone/go-devlog/pkg/interfaces"
	"github.com/goliatone/go-devlog/publish"
)

// Digest exports the validated digest input type.
type Digest = digest.Digest

// StoryPacket exports the per-PR story input type.
type StoryPacket = digest.StoryPacket

// TwitchClip exports the clip input type.
type TwitchClip = digest.TwitchClip

// GitHubEvent exports the event input type.
type GitHubEvent = digest.GitHubEvent

// Package exports the publish package output type.
type Package = publish.Package

// Serializer exports the digest-to-package transform service.
type Serializer = publish.Serializer

// Publisher exports the remote publishing collaborator contract.
type Publisher = interfaces.Publisher

// CachePurger exports the cache invalidation collaborator contract.
type CachePurger = interfaces.CachePurger

// Notifier exports the announcement collaborator contract.
type Notifier = interfaces.Notifier

// PublishHistory exports the build/publish record store contract.
type PublishHistory = interfaces.PublishHistory

// PublishRecord exports the per-date history record DTO.
type PublishRecord = interfaces.PublishRecord

// PublishStatus exports the per-date lifecycle status.
type PublishStatus = interfaces.PublishStatus

// BuildPackageCommand exports the build command message.
type BuildPackageCommand = publishcmd.BuildPackageCommand

// PublishPackageCommand exports the publish command message.
type PublishPackageCommand = publishcmd.PublishPackageCommand

// Module represents the top level devlog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a devlog module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Serializer returns the configured package serializer.
func (m *Module) Serializer() *Serializer {
	return m.container.Serializer()
}

// History returns the publish history store, or nil when disabled.
func (m *Module) History() PublishHistory {
	return m.container.History()
}

// Build transforms a digest into a publish package and, when history is
// enabled, records the build.
func (m *Module) Build(ctx context.Context, d *Digest) (*Package, error) {
	if d == nil {
		return nil, publish.ErrNilDigest
	}

	var built *Package
	handler := publishcmd.NewBuildPackageHandler(
		m.container.Serializer(),
		m.container.History(),
		func(pkg *Package) { built = pkg },
		logging.CommandsLogger(m.container.LoggerProvider()),
	)
	if err := handler.Execute(ctx, BuildPackageCommand{Date: d.Date, Digest: d}); err != nil {
		return nil, err
	}
	return built, nil
}

// Publish pushes a built package through the configured collaborators.
func (m *Module) Publish(ctx context.Context, cmd PublishPackageCommand) error {
	return m.container.PublishHandler().Execute(ctx, cmd)
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	return m.container.Close()
}
