package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-devlog/internal/commands"
	"github.com/goliatone/go-devlog/internal/commands/publishcmd"
	"github.com/goliatone/go-devlog/internal/history"
	"github.com/goliatone/go-devlog/internal/logging"
	"github.com/goliatone/go-devlog/internal/logging/console"
	"github.com/goliatone/go-devlog/internal/logging/gologger"
	"github.com/goliatone/go-devlog/internal/markdown"
	"github.com/goliatone/go-devlog/internal/runtimeconfig"
	"github.com/goliatone/go-devlog/pkg/interfaces"
	"github.com/goliatone/go-devlog/publish"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Container wires module dependencies from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB  *bun.DB
	ownsDB bool

	historyStore interfaces.PublishHistory

	publisher interfaces.Publisher
	purger    interfaces.CachePurger
	notifier  interfaces.Notifier

	serializer *publish.Serializer

	packageSink func(*publish.Package)

	buildHandler   *publishcmd.BuildPackageHandler
	publishHandler *publishcmd.PublishPackageHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider resolved from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB injects an externally managed database handle. The container
// will not close injected handles.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithHistory overrides the default publish history binding.
func WithHistory(store interfaces.PublishHistory) Option {
	return func(c *Container) {
		c.historyStore = store
	}
}

// WithPublisher binds the collaborator that pushes packages to the remote.
func WithPublisher(publisher interfaces.Publisher) Option {
	return func(c *Container) {
		c.publisher = publisher
	}
}

// WithCachePurger binds the collaborator that invalidates published URLs.
func WithCachePurger(purger interfaces.CachePurger) Option {
	return func(c *Container) {
		c.purger = purger
	}
}

// WithNotifier binds the collaborator that announces publish outcomes.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithPackageSink registers a callback invoked with every package the
// build handler produces.
func WithPackageSink(sink func(*publish.Package)) Option {
	return func(c *Container) {
		c.packageSink = sink
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureSerializer(); err != nil {
		return nil, err
	}
	if err := c.configureHistory(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureHandlers()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	switch c.Config.Logging.Provider {
	case "", "noop":
		return nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	case "console":
		minLevel := consoleLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			MinLevel: &minLevel,
		})
		return nil
	default:
		return fmt.Errorf("di: unsupported logging provider %q", c.Config.Logging.Provider)
	}
}

func (c *Container) configureSerializer() error {
	if c.serializer != nil {
		return nil
	}

	serializer, err := publish.New(publish.Options{
		SiteBaseURL:       c.Config.Site.BaseURL,
		RepoBaseURL:       c.Config.Repo.BaseURL,
		MediaBaseURL:      c.Config.Media.BaseURL,
		EmbedDomains:      c.Config.Embeds.Domains,
		AuthorName:        c.Config.Site.AuthorName,
		SiteName:          c.Config.Site.Name,
		LogoURL:           c.Config.Site.LogoURL,
		HeroImage:         c.Config.Site.HeroImage,
		Signature:         c.Config.Site.Signature,
		SignatureSentinel: c.Config.Site.SignatureSentinel,
	},
		publish.WithLogger(logging.PublishLogger(c.loggerProvider)),
		publish.WithParser(markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: c.Config.Markdown.Extensions,
			Sanitize:   c.Config.Markdown.Sanitize,
			HardWraps:  c.Config.Markdown.HardWraps,
			SafeMode:   c.Config.Markdown.SafeMode,
		})),
	)
	if err != nil {
		return err
	}

	c.serializer = serializer
	return nil
}

func (c *Container) configureHistory() error {
	if c.historyStore != nil || !c.Config.History.Enabled {
		return nil
	}

	if c.bunDB == nil {
		sqldb, err := sql.Open("sqlite3", c.Config.History.DSN)
		if err != nil {
			return fmt.Errorf("di: open history database: %w", err)
		}
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
		c.ownsDB = true
	}

	store := history.NewStore(c.bunDB, history.WithLogger(logging.HistoryLogger(c.loggerProvider)))
	if err := store.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("di: ensure history schema: %w", err)
	}

	c.historyStore = store
	return nil
}

func (c *Container) configureHandlers() {
	c.buildHandler = publishcmd.NewBuildPackageHandler(
		c.serializer,
		c.historyStore,
		c.packageSink,
		commands.CommandLogger(c.loggerProvider, "package.build"),
	)

	c.publishHandler = publishcmd.NewPublishPackageHandler(
		c.publisher,
		c.purger,
		c.notifier,
		c.historyStore,
		commands.CommandLogger(c.loggerProvider, "package.publish"),
	)
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}

// Close releases resources the container opened itself. Injected handles
// stay open.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}

// LoggerProvider exposes the resolved provider; nil means no-op logging.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Serializer returns the configured package serializer.
func (c *Container) Serializer() *publish.Serializer {
	return c.serializer
}

// History returns the publish history store, or nil when history is
// disabled and no override was injected.
func (c *Container) History() interfaces.PublishHistory {
	return c.historyStore
}

// DB exposes the history database handle for advanced integrations.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// BuildHandler returns the handler that turns digests into packages.
func (c *Container) BuildHandler() *publishcmd.BuildPackageHandler {
	return c.buildHandler
}

// PublishHandler returns the handler that pushes packages to collaborators.
func (c *Container) PublishHandler() *publishcmd.PublishPackageHandler {
	return c.publishHandler
}
