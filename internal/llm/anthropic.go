// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// The Messages API requires max_tokens on every call.
const defaultAnthropicMaxTokens = 4096

// ClaudeClient runs completions through the Anthropic Messages API.
type ClaudeClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeClient creates an Anthropic-backed completion client.
func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return &ClaudeClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Complete sends one prompt and returns the concatenated text blocks.
func (c *ClaudeClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	maxTokens := in.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(in.Prompt))},
	}
	if in.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.System}}
	}
	if in.Temperature > 0 {
		params.Temperature = anthropic.Float(in.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages call failed: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var sb strings.Builder
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// ModelName returns the model this client completes with.
func (c *ClaudeClient) ModelName() string {
	return string(c.model)
}
