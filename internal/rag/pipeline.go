package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/creditrust/complaints-rag/internal/storage"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// AnswerResult is the sole artifact returned across the system boundary.
// Sources mirror the retrieval ranking; duplicate complaint IDs across
// chunks are possible and are not deduplicated.
type AnswerResult struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

// Source is one complaint excerpt backing the answer.
type Source struct {
	Text        string `json:"text"`
	Product     string `json:"product"`
	Company     string `json:"company"`
	ComplaintID string `json:"complaint_id"`
}

// Pipeline composes retrieval, context assembly, and generation into one
// stateless request transaction. It holds only long-lived handles injected
// at startup; every call is independent.
type Pipeline struct {
	retriever DocRetriever
	generator AnswerGenerator
	logger    *slog.Logger
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(retriever DocRetriever, generator AnswerGenerator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// AnswerQuestion runs the full query transaction. Any failure in retrieval
// or generation propagates to the caller; there is no partial or fallback
// answer.
func (p *Pipeline) AnswerQuestion(ctx context.Context, question string, filters storage.Filters) (*AnswerResult, error) {
	docs, err := p.retriever.Retrieve(ctx, question, filters, DefaultTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	p.logger.Debug("Retrieved complaint chunks", "question", question, "count", len(docs))

	contextBlock := AssembleContext(docs)

	answer, err := p.generator.Generate(ctx, contextBlock, question)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	sources := make([]Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, Source{
			Text:        doc.Text,
			Product:     doc.Metadata.Product,
			Company:     doc.Metadata.Company,
			ComplaintID: doc.Metadata.ComplaintID,
		})
	}

	return &AnswerResult{
		Question: question,
		Answer:   answer,
		Sources:  sources,
	}, nil
}
