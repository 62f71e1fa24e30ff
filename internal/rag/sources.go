// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package rag

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Chunking defaults for the documentation corpus.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSourceURLs returns the documentation pages indexed for a cloud
// provider.
func DefaultSourceURLs(provider string) ([]string, error) {
	switch strings.ToLower(provider) {
	case "aws":
		return []string{
			"https://docs.aws.amazon.com/wellarchitected/latest/framework/",
			"https://docs.aws.amazon.com/architecture/",
			"https://aws.amazon.com/architecture/well-architected/",
			"https://docs.aws.amazon.com/whitepapers/",
			"https://aws.amazon.com/security/security-resources/",
			"https://aws.amazon.com/compliance/",
			"https://docs.aws.amazon.com/cost-management/",
			"https://aws.amazon.com/reliability/",
		}, nil
	case "azure":
		return []string{
			"https://docs.microsoft.com/en-us/azure/architecture/",
			"https://docs.microsoft.com/en-us/azure/well-architected/",
			"https://docs.microsoft.com/en-us/azure/security/",
			"https://docs.microsoft.com/en-us/azure/cost-management/",
			"https://docs.microsoft.com/en-us/azure/reliability/",
			"https://docs.microsoft.com/en-us/azure/performance/",
			"https://docs.microsoft.com/en-us/azure/operational-excellence/",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported cloud provider: %s", provider)
	}
}

// ExtractText strips markup from a fetched documentation page, returning
// its visible text. Script and style bodies are dropped and whitespace runs
// collapse to single spaces, so the chunker sees continuous prose. Plain
// text input passes through unchanged apart from whitespace normalization.
func ExtractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			fields := strings.Fields(n.Data)
			if len(fields) > 0 {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strings.Join(fields, " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

// ChunkText splits text into overlapping windows for indexing. Non-positive
// sizes fall back to the defaults.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
