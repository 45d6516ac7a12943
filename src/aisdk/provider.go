package aisdk

import (
	"context"
)

// ModelClient sends chat completions to a remote model.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ModelLister lists the models a provider serves.
type ModelLister interface {
	GetModels(ctx context.Context) ([]*ModelInfo, error)
}

// Provider is a remote model service.
type Provider interface {
	ModelClient
	ModelLister
}
