package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the complete configuration for medassist
type Config struct {
	// API configuration for the remote model provider
	API APIConfig `json:"api"`

	// Model and generation settings
	Model ModelConfig `json:"model"`

	// Session history settings
	Session SessionConfig `json:"session"`

	// Retry policy for transient provider failures
	Retry RetryConfig `json:"retry"`

	// HTTP server settings
	Server ServerConfig `json:"server"`

	// Snapshot file settings
	Snapshot SnapshotConfig `json:"snapshot"`

	// Observability configuration
	Observability ObservabilityConfig `json:"observability"`
}

// APIConfig holds API-related configuration
type APIConfig struct {
	// Provider specifies the API flavour (openrouter, openai, local)
	Provider string `json:"provider" validate:"provider"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`

	// APIKey for authentication (can be omitted if using env vars)
	APIKey string `json:"api_key,omitempty"`

	// APIKeyEnvVar specifies the environment variable to read the API key from
	APIKeyEnvVar string `json:"api_key_env_var,omitempty"`

	// Timeout for a single API request
	Timeout Duration `json:"timeout,omitempty" validate:"min=0"`

	// SiteURL and SiteName are sent as ranking headers to OpenRouter
	SiteURL  string `json:"site_url,omitempty" validate:"omitempty,url"`
	SiteName string `json:"site_name,omitempty"`
}

// ModelConfig holds generation settings
type ModelConfig struct {
	ID           string  `json:"id" validate:"required"`
	Temperature  float64 `json:"temperature" validate:"min=0,max=2"`
	MaxTokens    int     `json:"max_tokens" validate:"min=1"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

// SessionConfig controls per-session history
type SessionConfig struct {
	// AppName is stamped into snapshots
	AppName string `json:"app_name,omitempty"`

	// MaxTurns bounds each session to 2*MaxTurns messages
	MaxTurns int `json:"max_turns" validate:"min=1"`

	// IdleTTL evicts sessions idle longer than this; zero disables eviction
	IdleTTL Duration `json:"idle_ttl,omitempty" validate:"min=0"`

	// CleanupInterval is how often idle sessions are swept
	CleanupInterval Duration `json:"cleanup_interval,omitempty" validate:"min=0"`
}

// RetryConfig defines retry behavior for transient provider errors
type RetryConfig struct {
	MaxAttempts int      `json:"max_attempts" validate:"min=1,max=10"`
	BaseDelay   Duration `json:"base_delay" validate:"min=0"`
}

// ServerConfig holds HTTP front end settings
type ServerConfig struct {
	Addr         string `json:"addr" validate:"required"`
	AllowOrigins string `json:"allow_origins,omitempty"`
}

// SnapshotConfig holds snapshot file settings
type SnapshotConfig struct {
	// Directory where session snapshots are written
	Directory string `json:"directory,omitempty"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	// Logging configuration
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" validate:"log_level"`

	// Format is the output format (text, json)
	Format string `json:"format,omitempty" validate:"log_format"`
}

// Duration is a time.Duration that reads "30s" style strings or plain
// nanosecond numbers from JSON and writes strings.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
