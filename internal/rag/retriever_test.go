package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditrust/complaints-rag/internal/storage"
)

// fakeEmbedder returns a fixed vector and records the last input.
type fakeEmbedder struct {
	lastText string
	vector   []float32
	err      error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeSearcher returns canned hits and records the last search arguments.
type fakeSearcher struct {
	lastLimit   int
	lastFilters storage.Filters
	lastVector  []float32
	hits        []*storage.ScoredChunk
	err         error
}

func (f *fakeSearcher) Search(ctx context.Context, embedding []float32, limit int, filters storage.Filters) ([]*storage.ScoredChunk, error) {
	f.lastVector = embedding
	f.lastLimit = limit
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > limit {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

func scoredChunk(id, product, text string, score float64) *storage.ScoredChunk {
	return &storage.ScoredChunk{
		Chunk: &storage.Chunk{
			ID:   id,
			Text: text,
			Metadata: storage.ChunkMetadata{
				ComplaintID: id,
				Product:     product,
			},
		},
		Score: score,
	}
}

func TestRetriever_ReturnsRankedDocs(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{
		hits: []*storage.ScoredChunk{
			scoredChunk("1001", "Credit card", "first hit", 0.92),
			scoredChunk("1002", "Credit card", "second hit", 0.85),
			scoredChunk("1003", "Personal loan", "third hit", 0.61),
		},
	}
	retriever := NewRetriever(embedder, searcher)

	docs, err := retriever.Retrieve(context.Background(), "late fees", storage.Filters{}, 5)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "late fees", embedder.lastText)
	assert.Equal(t, 5, searcher.lastLimit)

	// Index order mirrors search ranking: similarity never increases.
	for i := 1; i < len(docs); i++ {
		assert.GreaterOrEqual(t, docs[i-1].Score, docs[i].Score,
			"docs must stay in descending similarity order")
	}
	assert.Equal(t, "first hit", docs[0].Text)
	assert.Equal(t, "Credit card", docs[0].Metadata.Product)
}

func TestRetriever_CapsResultsAtK(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{
		hits: []*storage.ScoredChunk{
			scoredChunk("1", "Credit card", "a", 0.9),
			scoredChunk("2", "Credit card", "b", 0.8),
			scoredChunk("3", "Credit card", "c", 0.7),
		},
	}
	retriever := NewRetriever(embedder, searcher)

	docs, err := retriever.Retrieve(context.Background(), "fees", storage.Filters{}, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(docs), 2)
}

func TestRetriever_DefaultsK(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{}
	retriever := NewRetriever(embedder, searcher)

	_, err := retriever.Retrieve(context.Background(), "fees", storage.Filters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, searcher.lastLimit)
}

func TestRetriever_PassesFiltersThrough(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{}
	retriever := NewRetriever(embedder, searcher)

	filters := storage.Filters{Product: "Credit card", Company: "Acme Bank"}
	_, err := retriever.Retrieve(context.Background(), "fees", filters, 5)
	require.NoError(t, err)
	assert.Equal(t, filters, searcher.lastFilters)
}

func TestRetriever_EmptyQuestion(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{}
	retriever := NewRetriever(embedder, searcher)

	docs, err := retriever.Retrieve(context.Background(), "", storage.Filters{}, 5)
	require.NoError(t, err, "empty question must not fail")
	assert.Empty(t, docs)
	assert.Equal(t, "", embedder.lastText, "empty string is valid embedder input")
}

func TestRetriever_EmbedErrorPropagates(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("model unavailable")}
	retriever := NewRetriever(embedder, &fakeSearcher{})

	_, err := retriever.Retrieve(context.Background(), "fees", storage.Filters{}, 5)
	assert.ErrorContains(t, err, "embed question")
}

func TestRetriever_SearchErrorPropagates(t *testing.T) {
	embedder := &fakeEmbedder{vector: make([]float32, storage.VectorDimension)}
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	retriever := NewRetriever(embedder, searcher)

	_, err := retriever.Retrieve(context.Background(), "fees", storage.Filters{}, 5)
	assert.ErrorContains(t, err, "search chunks")
}
