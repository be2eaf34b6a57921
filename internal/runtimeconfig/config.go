package runtimeconfig

import (
	"fmt"
	"strings"

	"errors"
)

var ErrSiteBaseURLRequired = errors.New("devlog config: site base URL is required")
var ErrSiteBaseURLInvalid = errors.New("devlog config: site base URL must be absolute http(s)")
var ErrRepoBaseURLInvalid = errors.New("devlog config: repo base URL must be absolute http(s)")
var ErrHistoryDSNRequired = errors.New("devlog config: history DSN is required when history is enabled")
var ErrLoggingProviderUnknown = errors.New("devlog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("devlog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("devlog config: logging format is invalid")

// Config aggregates site identity, publishing targets, and adapter bindings
// for the devlog module. Fields intentionally use simple types so host
// applications can load them from flags or YAML without adapters.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Repo     RepoConfig     `yaml:"repo"`
	Media    MediaConfig    `yaml:"media"`
	Embeds   EmbedConfig    `yaml:"embeds"`
	Markdown MarkdownConfig `yaml:"markdown"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig identifies the publishing site.
type SiteConfig struct {
	BaseURL    string `yaml:"base_url"`
	Name       string `yaml:"name"`
	AuthorName string `yaml:"author_name"`
	LogoURL    string `yaml:"logo_url"`
	HeroImage  string `yaml:"hero_image"`

	// Signature overrides the block appended to every post body. Sentinel
	// is the substring used to detect an existing signature; leave both
	// empty to use the built-in block.
	Signature         string `yaml:"signature"`
	SignatureSentinel string `yaml:"signature_sentinel"`
}

// RepoConfig points at the source repository that anchors link into.
type RepoConfig struct {
	BaseURL string `yaml:"base_url"`
}

// MediaConfig controls where rendered video assets are served from.
type MediaConfig struct {
	BaseURL string `yaml:"base_url"`
}

// EmbedConfig lists the parent domains allowed to host clip embeds.
type EmbedConfig struct {
	Domains string `yaml:"domains"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// HistoryConfig controls the publish history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns opinionated defaults for the reference deployment.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:    "https://paulchrisluke.com",
			Name:       "PCL Labs",
			AuthorName: "Paul Chris Luke",
		},
		Repo: RepoConfig{
			BaseURL: "https://github.com/paulchrisluke/pcl-labs",
		},
		Embeds: EmbedConfig{
			Domains: "paulchrisluke.com,www.paulchrisluke.com",
		},
		History: HistoryConfig{
			Enabled: false,
			DSN:     "file:devlog.db?_fk=1",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.Site.BaseURL)
	if base == "" {
		return ErrSiteBaseURLRequired
	}
	if !isAbsoluteHTTP(base) {
		return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
	}
	if repo := strings.TrimSpace(cfg.Repo.BaseURL); repo != "" && !isAbsoluteHTTP(repo) {
		return fmt.Errorf("%w: %s", ErrRepoBaseURLInvalid, repo)
	}
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.DSN) == "" {
		return ErrHistoryDSNRequired
	}
	if provider := normalizeProvider(cfg.Logging.Provider); provider != "" {
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isAbsoluteHTTP(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger", "console":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
