package orclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds configuration for the OpenRouter client
type Config struct {
	APIKey     string        // OpenRouter API key
	BaseURL    string        // Base URL for OpenRouter API
	Logger     *slog.Logger  // Logger for debugging
	Timeout    time.Duration // HTTP timeout
	SiteURL    string        // Site URL for ranking
	SiteName   string        // Site name for ranking
	HTTPClient *http.Client  // Optional custom HTTP client
	ModelsTTL  time.Duration // How long the model list is cached
	// KeyOptional allows requests without an API key, for local servers.
	KeyOptional bool
}
