// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiClient runs completions through the Google GenAI API. Constructing
// the underlying client needs a context, so it is created on the first call
// rather than in the constructor.
type GeminiClient struct {
	mu     sync.Mutex
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiClient creates a Gemini-backed completion client.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c.client, nil
}

// Complete sends one prompt and returns the text output.
func (c *GeminiClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: in.Prompt}},
	}}

	config := &genai.GenerateContentConfig{}
	if in.Temperature > 0 {
		temp := float32(in.Temperature)
		config.Temperature = &temp
	}
	if in.MaxTokens > 0 {
		config.MaxOutputTokens = int32(in.MaxTokens)
	}
	if in.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: in.System}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return result.Text(), nil
}

// ModelName returns the model this client completes with.
func (c *GeminiClient) ModelName() string {
	return c.model
}
