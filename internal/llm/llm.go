// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package llm provides the completion clients the pipeline agents run on.
// Every agent makes exactly one completion call per activation; retries and
// loop control belong to the workflow, not to these clients.
package llm

import (
	"context"
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderOpenCode  = "opencode"
)

// CompletionRequest carries one prompt through a provider client.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client is the completion surface the pipeline agents need: one request in,
// one text response out.
type Client interface {
	Complete(ctx context.Context, in CompletionRequest) (string, error)
	ModelName() string
}

// Config selects and parameterizes a provider client.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// New creates the provider client named by cfg. Credentials are not checked
// here: a missing or invalid key surfaces on the first Complete call.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model), nil
	case ProviderAnthropic:
		return NewClaudeClient(cfg.APIKey, cfg.Model), nil
	case ProviderGemini:
		return NewGeminiClient(cfg.APIKey, cfg.Model), nil
	case ProviderOllama:
		return NewOllamaClient(cfg.BaseURL, cfg.Model), nil
	case ProviderOpenCode:
		return NewOpenCodeClient(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// composeInput flattens a system preamble and a user prompt into one input
// string for providers without a separate system channel.
func composeInput(system, prompt string) string {
	if system == "" {
		return prompt
	}
	return fmt.Sprintf("System: %s\n\n%s", system, prompt)
}
