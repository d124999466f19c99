package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/creditrust/complaints-rag/internal/embedding"
	"github.com/creditrust/complaints-rag/internal/storage"
)

// BuildResult contains statistics about an index build.
type BuildResult struct {
	TotalRecords   int
	IndexedRecords int
	TotalChunks    int
	Failed         []FailedRecord
	Duration       time.Duration
}

// FailedRecord is a complaint that could not be indexed.
type FailedRecord struct {
	ComplaintID string
	Reason      string
}

// Pipeline runs the offline index build: clean, split, embed, upsert.
type Pipeline struct {
	splitter *Splitter
	embedder *embedding.Embedder
	store    *storage.Store
	logger   *slog.Logger
}

// NewPipeline creates an index build pipeline.
func NewPipeline(splitter *Splitter, embedder *embedding.Embedder, store *storage.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// BuildIndex loads in-scope complaints from the CSV stream and indexes each
// one. A failing record is logged and skipped; the build continues.
func (p *Pipeline) BuildIndex(ctx context.Context, csvSource io.Reader) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{}

	records, err := LoadComplaints(csvSource)
	if err != nil {
		return nil, fmt.Errorf("load complaints: %w", err)
	}
	result.TotalRecords = len(records)
	p.logger.Info("Loaded complaints", "count", len(records))

	for _, record := range records {
		chunks, err := p.indexRecord(ctx, record)
		if err != nil {
			p.logger.Warn("Failed to index complaint", "complaint_id", record.ComplaintID, "error", err)
			result.Failed = append(result.Failed, FailedRecord{
				ComplaintID: record.ComplaintID,
				Reason:      err.Error(),
			})
			continue
		}
		result.IndexedRecords++
		result.TotalChunks += chunks
	}

	result.Duration = time.Since(start)
	p.logger.Info("Index build complete",
		"indexed", result.IndexedRecords,
		"failed", len(result.Failed),
		"chunks", result.TotalChunks,
		"duration", result.Duration,
	)

	return result, nil
}

// indexRecord splits, embeds, and stores one complaint. Returns the number
// of chunks written.
func (p *Pipeline) indexRecord(ctx context.Context, record Record) (int, error) {
	texts := p.splitter.Split(record.Narrative)
	if len(texts) == 0 {
		return 0, nil
	}

	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embeddings: %w", err)
	}

	total := strconv.Itoa(len(texts))
	chunks := make([]*storage.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &storage.Chunk{
			ID:   fmt.Sprintf("%s_%d", record.ComplaintID, i),
			Text: text,
			Metadata: storage.ChunkMetadata{
				ComplaintID:  record.ComplaintID,
				Product:      record.Product,
				Issue:        record.Issue,
				SubIssue:     record.SubIssue,
				Company:      record.Company,
				DateReceived: record.DateReceived,
				ChunkIndex:   strconv.Itoa(i),
				TotalChunks:  total,
			},
			Embedding: embeddings[i],
		}
	}

	if err := p.store.UpsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	p.logger.Debug("Indexed complaint", "complaint_id", record.ComplaintID, "chunks", len(texts))
	return len(texts), nil
}
