package storage

// Chunk is one indexed slice of a complaint narrative plus its embedding
// and metadata. Chunks are written by the offline indexing job and read
// back during query-time vector search.
type Chunk struct {
	ID        string // Natural key: "<complaint_id>_<chunk_index>"
	Text      string // Cleaned narrative slice
	Metadata  ChunkMetadata
	Embedding []float32 // 1536-dim vector (text-embedding-3-small)
}

// ChunkMetadata carries the complaint fields stored alongside each chunk.
// All values are strings; missing source values are stored as "".
type ChunkMetadata struct {
	ComplaintID  string
	Product      string
	Issue        string
	SubIssue     string
	Company      string
	DateReceived string
	ChunkIndex   string
	TotalChunks  string
}

// ScoredChunk pairs a chunk with its cosine similarity to the query vector.
// Higher scores mean more similar.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// Filters restricts a search to chunks whose metadata matches exactly.
// Only the product and company fields are filterable; empty values are
// ignored. Equality is the only supported match.
type Filters struct {
	Product string
	Company string
}

// CollectionName is the single Qdrant collection holding all complaint chunks.
const CollectionName = "complaints_rag"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
