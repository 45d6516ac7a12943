// Package aisdk defines provider-neutral chat completion types shared by the
// HTTP client and the provider wrapper.
package aisdk

import "time"

// Chat roles understood by OpenAI-compatible endpoints.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
	// Metadata for message tracking
	CreatedAt time.Time `json:"-"`
}

// ChatCompletionRequest represents a request to the chat completions endpoint.
type ChatCompletionRequest struct {
	Model       string     `json:"model"`
	Messages    []*Message `json:"messages"`
	Temperature *float64   `json:"temperature,omitempty"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
	TopP        *float64   `json:"top_p,omitempty"`
	Stream      bool       `json:"stream,omitempty"`
	Stop        []string   `json:"stop,omitempty"`
	User        string     `json:"user,omitempty"`
}

// ChatCompletionResponse represents a response from the chat completions endpoint.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
	// Error is set when an upstream provider failed after the endpoint had
	// already answered 200
	Error *Error `json:"error,omitempty"`
}

// Text returns the content of the first choice.
func (r *ChatCompletionResponse) Text() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Error represents an API error payload.
type Error struct {
	Message  string                 `json:"message"`
	Type     string                 `json:"type"`
	Code     any                    `json:"code,omitempty"`
	Param    string                 `json:"param,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ErrorResponse wraps an error from the API.
// This matches the OpenRouter error format: {"error":{"message":"...","code":...}}
type ErrorResponse struct {
	Error Error `json:"error"`
}

// ModelInfo describes a model listed by the provider.
type ModelInfo struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ContextLength int          `json:"context_length"`
	Pricing       *Pricing     `json:"pricing,omitempty"`
	TopProvider   *TopProvider `json:"top_provider,omitempty"`
}

// Pricing contains model pricing information from OpenRouter
type Pricing struct {
	Prompt     string `json:"prompt"`     // Cost per input token
	Completion string `json:"completion"` // Cost per output token
}

// TopProvider contains provider-specific information from OpenRouter
type TopProvider struct {
	ContextLength       int  `json:"context_length,omitempty"`
	MaxCompletionTokens int  `json:"max_completion_tokens,omitempty"`
	IsModerated         bool `json:"is_moderated,omitempty"`
}
