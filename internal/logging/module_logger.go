package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-devlog/pkg/interfaces"
)

const (
	rootModule     = "devlog"
	digestModule   = "devlog.digest"
	anchorsModule  = "devlog.anchors"
	publishModule  = "devlog.publish"
	historyModule  = "devlog.history"
	commandsModule = "devlog.commands"
)

const (
	fieldDigestDate   = "digest_date"
	fieldDigestSource = "digest_source"
	fieldPublishSlug  = "slug"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DigestLogger returns the logger namespace reserved for digest loading.
func DigestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, digestModule)
}

// AnchorsLogger returns the logger namespace reserved for anchor resolution.
func AnchorsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, anchorsModule)
}

// PublishLogger returns the logger namespace reserved for package assembly.
func PublishLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishModule)
}

// HistoryLogger returns the logger namespace reserved for publish history.
func HistoryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, historyModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithDigestContext enriches the provided logger with common digest fields
// such as date, source path, and target slug. Empty values are ignored.
func WithDigestContext(logger interfaces.Logger, date, source, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(date); trimmed != "" {
		fields[fieldDigestDate] = trimmed
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldDigestSource] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPublishSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
