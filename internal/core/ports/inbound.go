package ports

import (
	"context"
	"io"

	"github.com/getclever/docqa/internal/core/domain"
)

// SessionQueryService is the inbound contract for the query turn: guardrail
// pre-check, follow-up resolution, hybrid retrieval, rerank, post-check and
// answer composition.
type SessionQueryService interface {
	Ask(ctx context.Context, sessionID, query string) (*domain.Answer, error)
}

// SessionControl handles control signals forwarded from outside the core.
type SessionControl interface {
	ClearSession(ctx context.Context, sessionID string) error
	ResetIndex(ctx context.Context) error
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
