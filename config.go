package devlog

import "github.com/goliatone/go-devlog/internal/runtimeconfig"

var (
	ErrSiteBaseURLRequired    = runtimeconfig.ErrSiteBaseURLRequired
	ErrSiteBaseURLInvalid     = runtimeconfig.ErrSiteBaseURLInvalid
	ErrRepoBaseURLInvalid     = runtimeconfig.ErrRepoBaseURLInvalid
	ErrHistoryDSNRequired     = runtimeconfig.ErrHistoryDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	SiteConfig     = runtimeconfig.SiteConfig
	RepoConfig     = runtimeconfig.RepoConfig
	MediaConfig    = runtimeconfig.MediaConfig
	EmbedConfig    = runtimeconfig.EmbedConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	HistoryConfig  = runtimeconfig.HistoryConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
