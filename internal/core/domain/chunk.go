package domain

import "fmt"

// Chunk is the unit of retrieval and citation: a bounded span of one source
// document with a stable position inside it. Chunks are immutable after
// ingestion; the embedding is computed exactly once.
type Chunk struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SourceDocument string `json:"source_document"`
	PositionIndex  int    `json:"position_index"`
}

// ChunkID derives the stable identity of a chunk from its
// (source_document, position_index) pair.
func ChunkID(sourceDocument string, positionIndex int) string {
	return fmt.Sprintf("%s:%d", sourceDocument, positionIndex)
}

// Candidate is a per-query scoring record. It is never persisted.
type Candidate struct {
	ChunkID        string  `json:"chunk_id"`
	Text           string  `json:"text"`
	SourceDocument string  `json:"source_document"`
	PositionIndex  int     `json:"position_index"`
	KeywordScore   float64 `json:"keyword_score"`
	SemanticScore  float64 `json:"semantic_score"`
	FusedScore     float64 `json:"fused_score"`
	RerankScore    float64 `json:"rerank_score"`
}

// Citation points at a chunk that actually backed a generated answer.
type Citation struct {
	ChunkID        string `json:"chunk_id"`
	SourceDocument string `json:"source_document"`
	Excerpt        string `json:"excerpt"`
}
