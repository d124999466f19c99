package rag

import (
	"context"
	"fmt"

	"github.com/creditrust/complaints-rag/internal/storage"
)

// Retriever embeds a question and searches the complaint index. It returns
// at most k documents in descending similarity order; fewer when the index
// holds fewer matching chunks.
type Retriever struct {
	embedder Embedder
	store    Searcher
}

// NewRetriever constructs a Retriever from an embedder and a search backend.
func NewRetriever(embedder Embedder, store Searcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve embeds the question and returns the k nearest chunks satisfying
// the filters. An empty question still embeds to a valid vector and yields
// a valid (possibly empty) result.
func (r *Retriever) Retrieve(ctx context.Context, question string, filters storage.Filters, k int) ([]RetrievedDoc, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.store.Search(ctx, vector, k, filters)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	docs := make([]RetrievedDoc, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, RetrievedDoc{
			Text:     hit.Chunk.Text,
			Metadata: hit.Chunk.Metadata,
			Score:    hit.Score,
		})
	}

	return docs, nil
}
