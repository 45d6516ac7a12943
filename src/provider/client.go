// Package provider wraps a remote chat model with bounded retry and error
// classification.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/elee1766/medassist/src/aisdk"
	"github.com/elee1766/medassist/src/conversation"
	"github.com/elee1766/medassist/src/orclient"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config configures a Client.
type Config struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	// MaxAttempts bounds calls for transient failures, including the first.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number between attempts.
	BaseDelay time.Duration
	Logger    *slog.Logger
	Sleep     SleepFunc
}

// Client sends prompts to a model.
type Client struct {
	model  aisdk.ModelClient
	config Config
	logger *slog.Logger
	sleep  SleepFunc
}

// NewClient creates a Client over model.
func NewClient(model aisdk.ModelClient, config Config) *Client {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	sleep := config.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		model:  model,
		config: config,
		logger: logger.With("component", "provider", "model", config.Model),
		sleep:  sleep,
	}
}

// Model returns the configured model id.
func (c *Client) Model() string {
	return c.config.Model
}

// Backoff returns the delay after a failed attempt (1-based).
func (c *Client) Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * c.config.BaseDelay
}

// Send asks the model to respond to prompt, using priming as prior context.
// The reply text is returned unchanged. Failures are always *Error.
func (c *Client) Send(ctx context.Context, priming []conversation.Message, prompt string) (string, error) {
	req := c.buildRequest(priming, prompt)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		resp, err := c.model.CreateChatCompletion(ctx, req)
		if err == nil {
			text, ok := resp.Text()
			if !ok {
				return "", &Error{Kind: KindUnknown, Err: orclient.ErrEmptyResponse, Attempts: attempt}
			}
			if attempt > 1 {
				c.logger.Info("model call succeeded after retry", "attempt", attempt)
			}
			return text, nil
		}

		if ctx.Err() != nil {
			return "", &Error{Kind: KindTransient, Err: err, Attempts: attempt}
		}

		kind := Classify(err)
		if !kind.Retryable() {
			c.logger.Warn("model call failed", "kind", kind, "attempt", attempt, "error", err)
			return "", &Error{Kind: kind, Err: err, Attempts: attempt}
		}

		lastErr = err
		if attempt == c.config.MaxAttempts {
			break
		}

		delay := c.Backoff(attempt)
		c.logger.Warn("transient model error, retrying",
			"attempt", attempt,
			"max_attempts", c.config.MaxAttempts,
			"delay", delay,
			"error", err)
		if err := c.sleep(ctx, delay); err != nil {
			return "", &Error{Kind: KindTransient, Err: lastErr, Attempts: attempt}
		}
	}

	c.logger.Error("model call failed after all attempts", "attempts", c.config.MaxAttempts, "error", lastErr)
	return "", &Error{Kind: KindTransient, Err: lastErr, Attempts: c.config.MaxAttempts}
}

func (c *Client) buildRequest(priming []conversation.Message, prompt string) *aisdk.ChatCompletionRequest {
	messages := make([]*aisdk.Message, 0, len(priming)+2)
	if c.config.SystemPrompt != "" {
		messages = append(messages, &aisdk.Message{Role: aisdk.RoleSystem, Content: c.config.SystemPrompt})
	}
	for _, m := range priming {
		role := aisdk.RoleUser
		if m.Role == conversation.RoleAssistant {
			role = aisdk.RoleAssistant
		}
		messages = append(messages, &aisdk.Message{Role: role, Content: m.Content, CreatedAt: m.Timestamp})
	}
	messages = append(messages, &aisdk.Message{Role: aisdk.RoleUser, Content: prompt})

	req := &aisdk.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	}
	temp := c.config.Temperature
	req.Temperature = &temp
	if c.config.MaxTokens > 0 {
		maxTokens := c.config.MaxTokens
		req.MaxTokens = &maxTokens
	}
	return req
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
