package orclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elee1766/medassist/src/aisdk"
)

// ModelsResponse represents the response from the OpenRouter models API
type ModelsResponse struct {
	Data []*aisdk.ModelInfo `json:"data"`
}

// listModelsUncached returns all available models without caching
func (c *Client) listModelsUncached(ctx context.Context) ([]*aisdk.ModelInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleError(resp)
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return modelsResp.Data, nil
}

// FindModel searches for a model by id, falling back to a case-insensitive
// partial match on id or name.
func (c *Client) FindModel(ctx context.Context, name string) (*aisdk.ModelInfo, error) {
	models, err := c.GetModels(ctx)
	if err != nil {
		return nil, err
	}

	searchName := strings.ToLower(name)

	for _, model := range models {
		if strings.ToLower(model.ID) == searchName {
			return model, nil
		}
	}

	for _, model := range models {
		if strings.Contains(strings.ToLower(model.ID), searchName) ||
			strings.Contains(strings.ToLower(model.Name), searchName) {
			return model, nil
		}
	}

	return nil, fmt.Errorf("model matching %s not found", name)
}
