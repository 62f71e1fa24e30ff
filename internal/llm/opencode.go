package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sst/opencode-sdk-go"
	"github.com/sst/opencode-sdk-go/option"
)

// OpenCodeClient runs completions through a local opencode serve instance.
// Every call opens a fresh session so agent prompts stay independent of each
// other.
type OpenCodeClient struct {
	sdk   *opencode.Client
	model string
}

// NewOpenCodeClient creates a completion client against an opencode server.
// No API key is needed for local connections.
func NewOpenCodeClient(baseURL, model string) *OpenCodeClient {
	sdk := opencode.NewClient(
		option.WithBaseURL(baseURL),
	)
	return &OpenCodeClient{
		sdk:   sdk,
		model: model,
	}
}

// Complete sends one prompt in a new session and returns the joined text
// parts of the response.
func (c *OpenCodeClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	session, err := c.sdk.Session.New(ctx, opencode.SessionNewParams{
		Title: opencode.F("cloudy-intel"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	parts := []opencode.SessionPromptParamsPartUnion{
		opencode.TextPartInputParam{
			Type: opencode.F(opencode.TextPartInputTypeText),
			Text: opencode.F(composeInput(in.System, in.Prompt)),
		},
	}

	promptParams := opencode.SessionPromptParams{
		Parts: opencode.F(parts),
	}
	if c.model != "" {
		promptParams.Model = opencode.F(opencode.SessionPromptParamsModel{
			ModelID: opencode.F(c.model),
		})
	}

	message, err := c.sdk.Session.Prompt(ctx, session.ID, promptParams)
	if err != nil {
		return "", fmt.Errorf("failed to send prompt: %w", err)
	}

	var sb strings.Builder
	for _, part := range message.Parts {
		if part.Type == opencode.PartTypeText {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in opencode response")
	}
	return sb.String(), nil
}

// ModelName returns the model this client completes with.
func (c *OpenCodeClient) ModelName() string {
	return c.model
}
