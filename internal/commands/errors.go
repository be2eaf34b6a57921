package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried on wrapped command errors so callers can branch on
// the failure class without string matching.
const (
	codeValidationFailed = "DEVLOG_COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "DEVLOG_COMMAND_CANCELED"
	codeContextTimeout   = "DEVLOG_COMMAND_TIMEOUT"
	codeContextError     = "DEVLOG_COMMAND_CONTEXT_ERROR"
	codeExecuteFailed    = "DEVLOG_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	return wrapCommandError(err, goerrors.CategoryValidation, "command message validation failed", codeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return wrapCommandError(err, goerrors.CategoryCommand, "command cancelled", codeContextCanceled)
	case context.DeadlineExceeded:
		return wrapCommandError(err, goerrors.CategoryCommand, "command deadline exceeded", codeContextTimeout)
	default:
		return wrapCommandError(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

func wrapExecuteError(err error) error {
	return wrapCommandError(err, goerrors.CategoryCommand, "command execution failed", codeExecuteFailed)
}

func wrapCommandError(err error, category goerrors.Category, msg, code string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}
