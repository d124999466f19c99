// Package rag implements the online question-answering pipeline over the
// complaint index: query embedding, filtered vector search, bounded context
// assembly, and grounded answer generation.
package rag

import (
	"context"

	"github.com/creditrust/complaints-rag/internal/storage"
)

// Embedder converts a query string into a dense vector. The zero-length
// string is valid input.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher performs similarity search against the complaint index,
// restricted to chunks matching the filters exactly.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit int, filters storage.Filters) ([]*storage.ScoredChunk, error)
}

// DocRetriever returns the ranked complaint excerpts relevant to a question.
type DocRetriever interface {
	Retrieve(ctx context.Context, question string, filters storage.Filters, k int) ([]RetrievedDoc, error)
}

// AnswerGenerator produces an answer grounded in the supplied context block.
type AnswerGenerator interface {
	Generate(ctx context.Context, contextBlock, question string) (string, error)
}

// RetrievedDoc is one ranked search hit. Score is a cosine similarity;
// higher means more similar. Request-scoped, never persisted.
type RetrievedDoc struct {
	Text     string
	Metadata storage.ChunkMetadata
	Score    float64
}
