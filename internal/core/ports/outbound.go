package ports

import (
	"context"
	"io"

	"github.com/getclever/docqa/internal/core/domain"
)

// DocumentRepository persists document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	UpdateChunkCount(ctx context.Context, id string, chunkCount int) error
}

// ChunkRepository persists ingested chunks so the keyword index can be
// rebuilt on startup.
type ChunkRepository interface {
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error
	ListChunks(ctx context.Context) ([]domain.Chunk, error)
	DeleteAll(ctx context.Context) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits text into retrievable chunks.
type Chunker interface {
	Split(text string) []string
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunk vectors and performs nearest-neighbour search.
// Search scores are similarities normalized to [0,1], higher is closer.
type VectorStore interface {
	IndexChunks(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Candidate, error)
	Drop(ctx context.Context) error
}

// KeywordIndex performs sparse term-frequency scoring over the ingested
// corpus. Scoring is deterministic; an empty query yields no candidates.
type KeywordIndex interface {
	Add(chunks []domain.Chunk)
	Search(query string, limit int) []domain.Candidate
	Reset()
}

// AnswerGenerator invokes the external generation capability.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SessionStore isolates per-session conversation history. The history
// returned for a session is mutated only by the turn that owns it.
type SessionStore interface {
	History(sessionID string) *domain.History
	Clear(sessionID string)
}
