// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bitfield/script"
)

const serperEndpoint = "https://google.serper.dev/search"

// How many organic results to fold into the answer text.
const maxOrganicResults = 5

// WebSearch answers queries through the Serper search API.
type WebSearch struct {
	apiKey   string
	endpoint string
}

// NewWebSearch creates a web search tool against the Serper API.
func NewWebSearch(apiKey string) *WebSearch {
	return NewWebSearchWithEndpoint(apiKey, serperEndpoint)
}

// NewWebSearchWithEndpoint creates a web search tool against a specific
// endpoint URL.
func NewWebSearchWithEndpoint(apiKey, endpoint string) *WebSearch {
	return &WebSearch{
		apiKey:   apiKey,
		endpoint: endpoint,
	}
}

// Name returns the tool name agents see in their context block.
func (w *WebSearch) Name() string {
	return "web_search"
}

// Description returns the human-readable purpose of the tool.
func (w *WebSearch) Description() string {
	return "Useful for when you need more information from an online search"
}

type serperResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Run searches the web for the query and returns a condensed answer: the
// answer box when present, otherwise the top organic snippets.
func (w *WebSearch) Run(ctx context.Context, query string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("SERPER_API_KEY is not set")
	}

	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", fmt.Errorf("failed to encode search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	raw, err := script.Do(req).String()
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}

	var parsed serperResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	if parsed.AnswerBox.Answer != "" {
		return parsed.AnswerBox.Answer, nil
	}
	if parsed.AnswerBox.Snippet != "" {
		return parsed.AnswerBox.Snippet, nil
	}

	var snippets []string
	for i, result := range parsed.Organic {
		if i >= maxOrganicResults {
			break
		}
		if result.Snippet != "" {
			snippets = append(snippets, result.Snippet)
		}
	}
	if len(snippets) == 0 {
		return "", fmt.Errorf("no search results for query")
	}
	return strings.Join(snippets, " "), nil
}
