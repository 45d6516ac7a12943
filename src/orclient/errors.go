package orclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoAPIKey indicates the API key is missing
	ErrNoAPIKey = errors.New("API key is required")

	// ErrEmptyResponse indicates the API returned no choices
	ErrEmptyResponse = errors.New("empty response from API")
)

// APIError represents an error response from the OpenRouter API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Code       string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error is a transient server-side failure.
func (e *APIError) IsRetryable() bool {
	if e.IsRateLimit() || e.IsAuthError() || e.IsModelNotFound() {
		return false
	}

	// 5xx errors are generally retryable
	if e.StatusCode >= 500 && e.StatusCode < 600 {
		return true
	}
	if e.StatusCode == http.StatusRequestTimeout {
		return true
	}

	switch e.Code {
	case "timeout", "connection_error", "server_error":
		return true
	}

	return false
}

// IsRateLimit returns true if this is a rate limit or quota error. OpenRouter
// reports an exhausted credit balance as 402.
func (e *APIError) IsRateLimit() bool {
	switch e.Code {
	case "rate_limit_exceeded", "insufficient_quota", "insufficient_credits":
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusPaymentRequired
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	switch e.Code {
	case "invalid_api_key", "authentication_error":
		return true
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsModelNotFound returns true if the requested model does not exist or is
// not served.
func (e *APIError) IsModelNotFound() bool {
	switch e.Code {
	case "model_not_found":
		return true
	}
	return e.StatusCode == http.StatusNotFound
}
