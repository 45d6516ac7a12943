package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/elee1766/medassist/src/aisdk"
	"github.com/elee1766/medassist/src/conversation"
	"github.com/elee1766/medassist/src/orclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel returns the scripted results in order, repeating the last one.
type scriptedModel struct {
	mu       sync.Mutex
	results  []result
	requests []*aisdk.ChatCompletionRequest
}

type result struct {
	text string
	err  error
}

func (m *scriptedModel) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	r := m.results[len(m.results)-1]
	if idx := len(m.requests) - 1; idx < len(m.results) {
		r = m.results[idx]
	}
	if r.err != nil {
		return nil, r.err
	}
	return &aisdk.ChatCompletionResponse{
		Choices: []aisdk.Choice{{Message: aisdk.Message{Role: aisdk.RoleAssistant, Content: r.text}}},
	}, nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestClient(model aisdk.ModelClient, sleeper *sleepRecorder) *Client {
	return NewClient(model, Config{
		Model:        "google/gemini-2.5-flash",
		Temperature:  0.4,
		MaxTokens:    1024,
		SystemPrompt: "system",
		Sleep:        sleeper.Sleep,
	})
}

func TestSendSuccess(t *testing.T) {
	model := &scriptedModel{results: []result{{text: "  **Ibuprofen** is an NSAID.\n"}}}
	sleeper := &sleepRecorder{}
	client := newTestClient(model, sleeper)

	priming := []conversation.Message{
		{Role: conversation.RoleAssistant, Content: "Hello! How can I help?"},
		{Role: conversation.RoleUser, Content: "hi"},
		{Role: conversation.RoleAssistant, Content: "hello"},
	}
	text, err := client.Send(context.Background(), priming, "What is ibuprofen used for?")
	require.NoError(t, err)
	assert.Equal(t, "  **Ibuprofen** is an NSAID.\n", text)
	assert.Empty(t, sleeper.delays)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.Equal(t, "google/gemini-2.5-flash", req.Model)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 1024, *req.MaxTokens)

	var roles, contents []string
	for _, m := range req.Messages {
		roles = append(roles, m.Role)
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"system", "assistant", "user", "assistant", "user"}, roles)
	assert.Equal(t, "What is ibuprofen used for?", contents[len(contents)-1])
}

func TestSendNonRetryableFailuresFailImmediately(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     ErrorKind
		sentinel error
	}{
		{
			name:     "rate limit status",
			err:      &orclient.APIError{StatusCode: 429, Message: "Too many requests"},
			kind:     KindRateLimited,
			sentinel: ErrRateLimited,
		},
		{
			name:     "quota message",
			err:      errors.New("429 Resource has been exhausted (e.g. check quota)."),
			kind:     KindRateLimited,
			sentinel: ErrRateLimited,
		},
		{
			name:     "out of credits status",
			err:      &orclient.APIError{StatusCode: 402, Message: "Insufficient credits. Add more using https://openrouter.ai/credits"},
			kind:     KindRateLimited,
			sentinel: ErrRateLimited,
		},
		{
			name:     "out of credits message",
			err:      errors.New("insufficient credits for this request"),
			kind:     KindRateLimited,
			sentinel: ErrRateLimited,
		},
		{
			name:     "auth status",
			err:      &orclient.APIError{StatusCode: 401, Message: "No auth credentials found"},
			kind:     KindAuthFailed,
			sentinel: ErrAuthFailed,
		},
		{
			name:     "missing key",
			err:      fmt.Errorf("call: %w", orclient.ErrNoAPIKey),
			kind:     KindAuthFailed,
			sentinel: ErrAuthFailed,
		},
		{
			name:     "auth message",
			err:      errors.New("400 API key not valid. Please pass a valid API key."),
			kind:     KindAuthFailed,
			sentinel: ErrAuthFailed,
		},
		{
			name:     "unknown model",
			err:      &orclient.APIError{StatusCode: 404, Message: "No endpoints found for google/gemini-9"},
			kind:     KindModelUnavailable,
			sentinel: ErrModelUnavailable,
		},
		{
			name:     "model message",
			err:      errors.New("models/gemini-9 is not found: model not found for API version v1beta"),
			kind:     KindModelUnavailable,
			sentinel: ErrModelUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{results: []result{{err: tt.err}}}
			sleeper := &sleepRecorder{}
			client := newTestClient(model, sleeper)

			_, err := client.Send(context.Background(), nil, "hello")
			require.Error(t, err)

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, 1, perr.Attempts)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, model.calls())
			assert.Empty(t, sleeper.delays)
		})
	}
}

func TestSendRetriesTransientThenSucceeds(t *testing.T) {
	model := &scriptedModel{results: []result{
		{err: errors.New("connection reset by peer")},
		{err: &orclient.APIError{StatusCode: 503, Message: "overloaded"}},
		{text: "third time lucky"},
	}}
	sleeper := &sleepRecorder{}
	client := newTestClient(model, sleeper)

	text, err := client.Send(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", text)
	assert.Equal(t, 3, model.calls())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestSendExhaustsAttempts(t *testing.T) {
	model := &scriptedModel{results: []result{
		{err: errors.New("first")},
		{err: errors.New("second")},
		{err: errors.New("upstream exploded")},
	}}
	sleeper := &sleepRecorder{}
	client := newTestClient(model, sleeper)

	_, err := client.Send(context.Background(), nil, "hello")
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindTransient, perr.Kind)
	assert.Equal(t, 3, perr.Attempts)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Contains(t, perr.UserMessage(), "after 3 attempts")
	assert.Equal(t, 3, model.calls())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestSendEmptyResponse(t *testing.T) {
	model := &emptyModel{}
	client := newTestClient(model, &sleepRecorder{})

	_, err := client.Send(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrUnknown)
	assert.Equal(t, KindUnknown, KindOf(err))
}

type emptyModel struct{}

func (emptyModel) CreateChatCompletion(context.Context, *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	return &aisdk.ChatCompletionResponse{}, nil
}

func TestSendStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := &scriptedModel{results: []result{{err: errors.New("flaky")}}}
	client := NewClient(model, Config{
		Sleep: func(context.Context, time.Duration) error {
			cancel()
			return context.Canceled
		},
	})

	_, err := client.Send(ctx, nil, "hello")
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	assert.Equal(t, 1, model.calls())
}

func TestBackoffIsProportionalToAttempt(t *testing.T) {
	client := NewClient(&scriptedModel{}, Config{})
	assert.Equal(t, 2*time.Second, client.Backoff(1))
	assert.Equal(t, 4*time.Second, client.Backoff(2))
	assert.Equal(t, 6*time.Second, client.Backoff(3))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindUnknown},
		{orclient.ErrEmptyResponse, KindUnknown},
		{&orclient.APIError{StatusCode: 500, Message: "boom"}, KindTransient},
		{&orclient.APIError{StatusCode: 400, Message: "bad request"}, KindTransient},
		{errors.New("You exceeded your current quota"), KindRateLimited},
		{errors.New("Authentication failed"), KindAuthFailed},
		{errors.New("unknown model: foo"), KindModelUnavailable},
		{errors.New("dial tcp: lookup api: no such host"), KindTransient},
		{context.DeadlineExceeded, KindTransient},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestErrorUserMessages(t *testing.T) {
	assert.Contains(t, (&Error{Kind: KindRateLimited, Err: errors.New("x")}).UserMessage(), "wait and try again")
	assert.Contains(t, (&Error{Kind: KindAuthFailed, Err: errors.New("x")}).UserMessage(), "API key")
	assert.Contains(t, (&Error{Kind: KindModelUnavailable, Err: errors.New("x")}).UserMessage(), "model name")
	assert.Equal(t, "rate_limited", KindRateLimited.String())
	assert.False(t, KindAuthFailed.Retryable())
	assert.True(t, KindTransient.Retryable())
}
