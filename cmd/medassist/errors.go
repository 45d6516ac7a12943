package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/elee1766/medassist/src/app"
	"github.com/elee1766/medassist/src/config"
	"github.com/elee1766/medassist/src/orclient"
	"github.com/elee1766/medassist/src/provider"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitUsage       = 2 // Usage error
	ExitConfig      = 3 // Configuration error
	ExitAuth        = 4 // Authentication error
	ExitNetwork     = 6 // Network or provider error
	ExitTimeout     = 7 // Timeout error
	ExitInterrupted = 8 // Interrupted by user
)

// errUsage marks errors caused by how the command was invoked.
var errUsage = errors.New("usage")

// ErrorHandler handles different types of errors and exits with appropriate codes
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleError handles an error and exits with the appropriate code
func (h *ErrorHandler) HandleError(err error) {
	if err == nil {
		return
	}

	h.logger.Debug("Command failed", "error", err)

	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	os.Exit(exitCode(err))
}

// exitCode determines the appropriate exit code for an error
func exitCode(err error) int {
	var validationErr config.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	case errors.As(err, &validationErr):
		return ExitConfig
	case errors.Is(err, app.ErrMissingAPIKey),
		errors.Is(err, orclient.ErrNoAPIKey),
		errors.Is(err, provider.ErrAuthFailed):
		return ExitAuth
	case errors.Is(err, provider.ErrRateLimited),
		errors.Is(err, provider.ErrTransient),
		errors.Is(err, provider.ErrModelUnavailable),
		errors.Is(err, provider.ErrUnknown):
		return ExitNetwork
	case errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitError
	}
}

// FatalError logs a fatal error and exits
func FatalError(logger *slog.Logger, err error) {
	NewErrorHandler(logger).HandleError(err)
}
