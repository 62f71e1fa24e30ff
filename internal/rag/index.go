// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package rag provides keyword retrieval over indexed cloud provider
// documentation. Agents consult it through per-role tool families before
// their completion call.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// DefaultTopK is how many chunks a documentation search folds into context.
const DefaultTopK = 5

// Index is the subset of bleve operations the store needs, enabling
// testability.
type Index interface {
	Index(id string, data interface{}) error
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	Close() error
}

// Document is one indexed chunk of provider documentation.
type Document struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Store wraps a bleve index with documentation-shaped operations.
type Store struct {
	index Index
}

// NewStore wraps an existing index.
func NewStore(index Index) *Store {
	return &Store{index: index}
}

// Open opens the documentation index at path, creating it when absent.
func Open(path string) (*Store, error) {
	index, err := bleve.Open(path)
	if err == nil {
		return NewStore(index), nil
	}

	index, err = bleve.New(path, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create documentation index: %w", err)
	}
	return NewStore(index), nil
}

// NewMemory creates an in-memory documentation index.
func NewMemory() (*Store, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return NewStore(index), nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true

	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("source", textFieldMapping)

	indexMapping.AddDocumentMapping("document", docMapping)

	return indexMapping
}

// Add indexes one documentation chunk.
func (s *Store) Add(doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if err := s.index.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	return nil
}

// SearchDocumentation returns the top k chunks matching the query.
func (s *Store) SearchDocumentation(ctx context.Context, query string, k int) ([]Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if k <= 0 {
		k = DefaultTopK
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = k
	req.Fields = []string{"*"}

	result, err := s.index.Search(req)
	if err != nil {
		slog.ErrorContext(ctx, "Documentation search failed",
			"query", query,
			"error", err)
		return nil, fmt.Errorf("documentation search failed: %w", err)
	}

	slog.DebugContext(ctx, "Documentation search",
		"query", query,
		"hits", len(result.Hits))

	docs := make([]Document, 0, len(result.Hits))
	for _, hit := range result.Hits {
		doc := Document{ID: hit.ID}
		if content, ok := hit.Fields["content"].(string); ok {
			doc.Content = content
		}
		if source, ok := hit.Fields["source"].(string); ok {
			doc.Source = source
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Context renders the top k matching chunks as a numbered advisory block for
// an agent prompt.
func (s *Store) Context(ctx context.Context, query string, k int) (string, error) {
	docs, err := s.SearchDocumentation(ctx, query, k)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "No relevant documentation found.", nil
	}

	context := "Relevant documentation:\n\n"
	for i, doc := range docs {
		context += fmt.Sprintf("%d. %s\n\n", i+1, doc.Content)
	}
	return context, nil
}

// Close flushes and closes the underlying index.
func (s *Store) Close() error {
	return s.index.Close()
}
