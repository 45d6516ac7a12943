package orclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/elee1766/medassist/src/aisdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:   "sk-test",
		BaseURL:  srv.URL,
		SiteName: "MedAssist AI",
	})
}

func TestCreateChatCompletion(t *testing.T) {
	var got aisdk.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "MedAssist AI", r.Header.Get("X-Title"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"index":0,"message":{"role":"assistant","content":"## Ibuprofen\n- pain"},"finish_reason":"stop"}],"usage":{"total_tokens":12}}`))
	})

	temp := 0.4
	resp, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{
		Model:       "google/gemini-2.5-flash",
		Temperature: &temp,
		Messages: []*aisdk.Message{
			{Role: aisdk.RoleSystem, Content: "be careful"},
			{Role: aisdk.RoleUser, Content: "What is ibuprofen used for?"},
		},
	})
	require.NoError(t, err)

	text, ok := resp.Text()
	require.True(t, ok)
	assert.Equal(t, "## Ibuprofen\n- pain", text)
	assert.Equal(t, 12, resp.Usage.TotalTokens)

	assert.Equal(t, "google/gemini-2.5-flash", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, aisdk.RoleUser, got.Messages[1].Role)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.4, *got.Temperature, 1e-9)
}

func TestCreateChatCompletionErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, apiErr *APIError)
	}{
		{
			name:   "openrouter numeric code",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit exceeded","code":429}}`,
			check: func(t *testing.T, apiErr *APIError) {
				assert.True(t, apiErr.IsRateLimit())
				assert.Equal(t, "429", apiErr.Code)
				assert.Equal(t, "Rate limit exceeded", apiErr.Message)
			},
		},
		{
			name:   "openai string code",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			check: func(t *testing.T, apiErr *APIError) {
				assert.True(t, apiErr.IsAuthError())
				assert.Equal(t, "invalid_request_error", apiErr.Type)
			},
		},
		{
			name:   "plain text body",
			status: http.StatusBadGateway,
			body:   "upstream down\n",
			check: func(t *testing.T, apiErr *APIError) {
				assert.True(t, apiErr.IsRetryable())
				assert.Equal(t, "upstream down", apiErr.Message)
			},
		},
		{
			name:   "empty body",
			status: http.StatusNotFound,
			body:   "",
			check: func(t *testing.T, apiErr *APIError) {
				assert.True(t, apiErr.IsModelNotFound())
				assert.Equal(t, "Not Found", apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "m"})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			tt.check(t, apiErr)
		})
	}
}

func TestCreateChatCompletionEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[]}`))
	})

	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "m"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCreateChatCompletionErrorInOKBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		retryable bool
		rateLimit bool
	}{
		{
			name:      "upstream failure with status code",
			body:      `{"id":"gen-1","error":{"message":"Provider returned error","code":502}}`,
			status:    502,
			retryable: true,
		},
		{
			name:      "upstream rate limit",
			body:      `{"error":{"message":"Rate limit exceeded upstream","code":429}}`,
			status:    429,
			rateLimit: true,
		},
		{
			name:      "no numeric code",
			body:      `{"error":{"message":"upstream exploded","code":"server_error"}}`,
			status:    502,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "m"})
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrEmptyResponse)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.RequestID)
			assert.Equal(t, tt.retryable, apiErr.IsRetryable())
			assert.Equal(t, tt.rateLimit, apiErr.IsRateLimit())
		})
	}
}

func TestCreateChatCompletionRequiresKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "m"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestCreateChatCompletionKeyOptional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, KeyOptional: true})
	resp, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "llama3"})
	require.NoError(t, err)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, "ok", text)
}

func TestGetModelsIsCached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"id":"google/gemini-2.5-flash","name":"Gemini 2.5 Flash"},{"id":"openai/gpt-4o-mini","name":"GPT-4o mini"}]}`))
	})

	models, err := client.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	_, err = client.GetModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	model, err := client.FindModel(context.Background(), "GPT-4O")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", model.ID)

	_, err = client.FindModel(context.Background(), "claude")
	assert.Error(t, err)
}
