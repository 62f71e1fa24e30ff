package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// OpenAIClient runs completions through the OpenAI Responses API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI-backed completion client.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete sends one prompt and returns the text output.
func (c *OpenAIClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(composeInput(in.System, in.Prompt))},
	}
	if in.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(in.MaxTokens))
	}
	if in.Temperature > 0 {
		params.Temperature = openai.Float(in.Temperature)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses call failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.OutputText(), nil
}

// ModelName returns the model this client completes with.
func (c *OpenAIClient) ModelName() string {
	return c.model
}
