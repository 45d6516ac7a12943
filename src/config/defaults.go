package config

import (
	"strings"
	"time"
)

// Provider base URLs
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenAIBaseURL     = "https://api.openai.com/v1"
)

// DefaultAppName is stamped into snapshots.
const DefaultAppName = "MedAssist AI"

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Provider:     "openrouter",
			APIKeyEnvVar: "OPENROUTER_API_KEY",
			Timeout:      Duration(60 * time.Second),
			SiteName:     DefaultAppName,
		},
		Model: ModelConfig{
			ID:          "google/gemini-2.5-flash",
			Temperature: 0.4,
			MaxTokens:   1024,
		},
		Session: SessionConfig{
			AppName:         DefaultAppName,
			MaxTurns:        20,
			CleanupInterval: Duration(time.Minute),
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   Duration(2 * time.Second),
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:5000",
			AllowOrigins: "*",
		},
		Snapshot: SnapshotConfig{
			Directory: DefaultSnapshotDir(),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// ResolvedBaseURL returns the configured base URL or the provider's default.
func (c APIConfig) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Provider {
	case "openai":
		return OpenAIBaseURL
	default:
		return OpenRouterBaseURL
	}
}

// MaskAPIKey masks an API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
