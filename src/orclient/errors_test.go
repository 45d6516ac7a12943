package orclient

import (
	"testing"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name            string
		err             *APIError
		expectedMsg     string
		isRetryable     bool
		isRateLimit     bool
		isAuthError     bool
		isModelNotFound bool
	}{
		{
			name: "basic error",
			err: &APIError{
				StatusCode: 400,
				Message:    "Bad request",
			},
			expectedMsg: "API error 400: Bad request",
		},
		{
			name: "forbidden is an auth error",
			err: &APIError{
				StatusCode: 403,
				Message:    "Forbidden",
				Code:       "insufficient_permissions",
			},
			expectedMsg: "API error 403 (insufficient_permissions): Forbidden",
			isAuthError: true,
		},
		{
			name: "server error",
			err: &APIError{
				StatusCode: 500,
				Message:    "Internal server error",
			},
			expectedMsg: "API error 500: Internal server error",
			isRetryable: true,
		},
		{
			name: "rate limit error",
			err: &APIError{
				StatusCode: 429,
				Message:    "Too many requests",
				Code:       "rate_limit_exceeded",
			},
			expectedMsg: "API error 429 (rate_limit_exceeded): Too many requests",
			isRateLimit: true,
		},
		{
			name: "quota error with ok-ish status",
			err: &APIError{
				StatusCode: 402,
				Message:    "You exceeded your current quota",
				Code:       "insufficient_quota",
			},
			expectedMsg: "API error 402 (insufficient_quota): You exceeded your current quota",
			isRateLimit: true,
		},
		{
			name: "out of credits",
			err: &APIError{
				StatusCode: 402,
				Message:    "Insufficient credits",
			},
			expectedMsg: "API error 402: Insufficient credits",
			isRateLimit: true,
		},
		{
			name: "auth error",
			err: &APIError{
				StatusCode: 401,
				Message:    "Invalid API key",
				Code:       "invalid_api_key",
			},
			expectedMsg: "API error 401 (invalid_api_key): Invalid API key",
			isAuthError: true,
		},
		{
			name: "model not found",
			err: &APIError{
				StatusCode: 404,
				Message:    "No endpoints found for foo/bar",
			},
			expectedMsg:     "API error 404: No endpoints found for foo/bar",
			isModelNotFound: true,
		},
		{
			name: "model not found by code",
			err: &APIError{
				StatusCode: 400,
				Message:    "The model does not exist",
				Code:       "model_not_found",
			},
			expectedMsg:     "API error 400 (model_not_found): The model does not exist",
			isModelNotFound: true,
		},
		{
			name: "timeout error",
			err: &APIError{
				StatusCode: 504,
				Message:    "Gateway timeout",
				Code:       "timeout",
			},
			expectedMsg: "API error 504 (timeout): Gateway timeout",
			isRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.expectedMsg)
			}
			if tt.err.IsRetryable() != tt.isRetryable {
				t.Errorf("IsRetryable() = %v, want %v", tt.err.IsRetryable(), tt.isRetryable)
			}
			if tt.err.IsRateLimit() != tt.isRateLimit {
				t.Errorf("IsRateLimit() = %v, want %v", tt.err.IsRateLimit(), tt.isRateLimit)
			}
			if tt.err.IsAuthError() != tt.isAuthError {
				t.Errorf("IsAuthError() = %v, want %v", tt.err.IsAuthError(), tt.isAuthError)
			}
			if tt.err.IsModelNotFound() != tt.isModelNotFound {
				t.Errorf("IsModelNotFound() = %v, want %v", tt.err.IsModelNotFound(), tt.isModelNotFound)
			}
		})
	}
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"invalid_api_key", "invalid_api_key"},
		{float64(429), "429"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := codeString(tt.in); got != tt.want {
			t.Errorf("codeString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
