package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elee1766/medassist/src/orclient"
)

// ErrorKind classifies a failed model call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRateLimited
	KindAuthFailed
	KindModelUnavailable
	KindTransient
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrRateLimited      = errors.New("rate limited")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrTransient        = errors.New("transient provider error")
	ErrUnknown          = errors.New("unknown provider error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthFailed:
		return "auth_failed"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether another attempt may succeed.
func (k ErrorKind) Retryable() bool {
	return k == KindTransient
}

// Err returns the sentinel error for the kind.
func (k ErrorKind) Err() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindAuthFailed:
		return ErrAuthFailed
	case KindModelUnavailable:
		return ErrModelUnavailable
	case KindTransient:
		return ErrTransient
	default:
		return ErrUnknown
	}
}

// Error is returned by Client.Send for every failed call.
type Error struct {
	Kind     ErrorKind
	Err      error
	Attempts int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindTransient && e.Attempts > 1 {
		return fmt.Sprintf("%v after %d attempts: %v", e.Kind.Err(), e.Attempts, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind.Err(), e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.Err()
}

// UserMessage is a short explanation suitable for showing to an end user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "⚠️ Rate limit or quota hit. Please wait and try again, or check your provider credits."
	case KindAuthFailed:
		return "❌ Invalid API key. Check the provider API key in your configuration."
	case KindModelUnavailable:
		return "❌ Model not found. Check the configured model name (`medassist models` lists available ones)."
	case KindTransient:
		return fmt.Sprintf("❌ API error after %d attempts: %v", e.Attempts, e.Err)
	default:
		return fmt.Sprintf("❌ Unexpected provider error: %v", e.Err)
	}
}

// KindOf returns the kind of a provider error, or KindUnknown.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindUnknown
}

var (
	rateLimitHints = []string{"quota", "insufficient credits", "insufficient_credits", "rate limit", "rate_limit", "ratelimit", "too many requests", "resource_exhausted", "resource exhausted"}
	authHints      = []string{"api key", "api_key", "apikey", "authentication", "unauthorized", "unauthenticated", "permission denied"}
	modelHints     = []string{"model not found", "model_not_found", "unknown model", "no such model", "not a valid model", "no endpoints found"}
)

// Classify maps an error from the model client onto an ErrorKind. Structured
// API errors are trusted first; anything else falls back to matching hints in
// the message text, which is best effort.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *orclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsRateLimit():
			return KindRateLimited
		case apiErr.IsAuthError():
			return KindAuthFailed
		case apiErr.IsModelNotFound():
			return KindModelUnavailable
		}
	}

	switch {
	case errors.Is(err, orclient.ErrNoAPIKey):
		return KindAuthFailed
	case errors.Is(err, orclient.ErrEmptyResponse):
		return KindUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateLimitHints):
		return KindRateLimited
	case containsAny(msg, authHints):
		return KindAuthFailed
	case containsAny(msg, modelHints):
		return KindModelUnavailable
	}
	return KindTransient
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}
