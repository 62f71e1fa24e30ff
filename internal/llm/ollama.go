// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaClient runs completions through a local Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient creates an Ollama-backed completion client. An empty or
// invalid host URL falls back to the default local server address.
func NewOllamaClient(hostURL, model string) *OllamaClient {
	if hostURL == "" {
		hostURL = defaultOllamaHost
	}
	parsed, err := url.Parse(hostURL)
	if err != nil {
		parsed, _ = url.Parse(defaultOllamaHost)
	}
	return &OllamaClient{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
	}
}

// Complete sends one prompt and returns the accumulated chat response.
func (c *OllamaClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	var messages []api.Message
	if in.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: in.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: in.Prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
	}

	options := map[string]any{}
	if in.Temperature > 0 {
		options["temperature"] = in.Temperature
	}
	if in.MaxTokens > 0 {
		options["num_predict"] = in.MaxTokens
	}
	if len(options) > 0 {
		req.Options = options
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return sb.String(), nil
}

// ModelName returns the model this client completes with.
func (c *OllamaClient) ModelName() string {
	return c.model
}
