// Package orclient is an HTTP client for OpenRouter-compatible chat
// completion endpoints.
package orclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/elee1766/medassist/src/aisdk"
	"github.com/google/uuid"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultTimeout   = 60 * time.Second
	defaultModelsTTL = time.Hour
)

var _ aisdk.Provider = (*Client)(nil)

// Client is the OpenRouter API client. It performs exactly one HTTP attempt
// per call; retry policy belongs to the caller.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger

	modelsMu      sync.Mutex
	models        []*aisdk.ModelInfo
	modelsFetched time.Time
}

// NewClient creates a new OpenRouter API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.ModelsTTL == 0 {
		config.ModelsTTL = defaultModelsTTL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger.With("component", "openrouter_client"),
	}
}

// CreateChatCompletion sends a chat completion request.
func (c *Client) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	if c.config.APIKey == "" && !c.config.KeyOptional {
		return nil, ErrNoAPIKey
	}

	logger := c.logger.With("method", "CreateChatCompletion", "model", req.Model)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return nil, err
	}
	logger = logger.With("request_id", httpReq.Header.Get("X-Request-ID"))
	logger.Debug("sending chat completion request", "messages", len(req.Messages))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := c.handleError(resp)
		logger.Debug("received error response", "status_code", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}

	var result aisdk.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		if result.Error != nil && result.Error.Message != "" {
			apiErr := embeddedError(result.Error, httpReq.Header.Get("X-Request-ID"))
			logger.Debug("received error in 200 response", "error", apiErr)
			return nil, apiErr
		}
		return nil, ErrEmptyResponse
	}

	logger.Info("chat completion successful",
		"usage_total", result.Usage.TotalTokens,
		"finish_reason", result.Choices[0].FinishReason)
	return &result, nil
}

// GetModels returns the models served by the endpoint, cached for ModelsTTL.
func (c *Client) GetModels(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	c.modelsMu.Lock()
	defer c.modelsMu.Unlock()

	if c.models != nil && time.Since(c.modelsFetched) < c.config.ModelsTTL {
		return c.models, nil
	}

	models, err := c.listModelsUncached(ctx)
	if err != nil {
		return nil, err
	}
	c.models = models
	c.modelsFetched = time.Now()
	return models, nil
}

// newRequest creates a new HTTP request with the appropriate headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Optional headers for ranking
	if c.config.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.config.SiteURL)
	}
	if c.config.SiteName != "" {
		req.Header.Set("X-Title", c.config.SiteName)
	}

	return req, nil
}

// handleError turns a non-200 response into an *APIError.
func (c *Client) handleError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	var errResp aisdk.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		apiErr.Message = string(bytes.TrimSpace(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	apiErr.Type = errResp.Error.Type
	apiErr.Message = errResp.Error.Message
	apiErr.Code = codeString(errResp.Error.Code)
	return apiErr
}

// embeddedError converts an error object found in a 200 body. OpenRouter
// puts the upstream HTTP status in the numeric code; without one the failure
// is treated as a bad gateway.
func embeddedError(e *aisdk.Error, requestID string) *APIError {
	status := http.StatusBadGateway
	if n, ok := e.Code.(float64); ok && n >= 400 && n < 600 {
		status = int(n)
	}
	return &APIError{
		StatusCode: status,
		Type:       e.Type,
		Message:    e.Message,
		Code:       codeString(e.Code),
		RequestID:  requestID,
	}
}

// codeString normalizes error codes, which OpenRouter sends as numbers and
// OpenAI-style endpoints send as strings.
func codeString(code any) string {
	switch v := code.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.Itoa(int(v))
	default:
		return fmt.Sprint(v)
	}
}
