package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getclever/docqa/internal/core/ports"
)

// ControlUseCase handles control signals forwarded from outside the core:
// clearing a session's conversation history and resetting the retrieval
// index.
type ControlUseCase struct {
	sessions ports.SessionStore
	vectorDB ports.VectorStore
	keyword  ports.KeywordIndex
	chunks   ports.ChunkRepository
	logger   *slog.Logger
}

func NewControlUseCase(
	sessions ports.SessionStore,
	vectorDB ports.VectorStore,
	keyword ports.KeywordIndex,
	chunks ports.ChunkRepository,
	logger *slog.Logger,
) *ControlUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlUseCase{
		sessions: sessions,
		vectorDB: vectorDB,
		keyword:  keyword,
		chunks:   chunks,
		logger:   logger,
	}
}

// ClearSession resets the conversation history of one session only.
func (uc *ControlUseCase) ClearSession(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	uc.sessions.Clear(sessionID)
	uc.logger.Info("session_cleared", "session_id", sessionID)
	return nil
}

// ResetIndex drops the vector collection and clears the in-memory keyword
// index plus the persisted chunk corpus.
func (uc *ControlUseCase) ResetIndex(ctx context.Context) error {
	if err := uc.vectorDB.Drop(ctx); err != nil {
		return fmt.Errorf("drop vector collection: %w", err)
	}
	uc.keyword.Reset()
	if err := uc.chunks.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete chunk corpus: %w", err)
	}
	uc.logger.Info("index_reset")
	return nil
}
