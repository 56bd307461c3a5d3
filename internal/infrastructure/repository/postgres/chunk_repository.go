package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/getclever/docqa/internal/core/domain"
)

// ChunkRepository persists indexed chunks. The worker writes them during
// processing; the api reads them on startup to rebuild the in-memory
// keyword index.
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunks tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO chunks (id, source_document, position_index, text)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text
`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, query, chunk.ID, chunk.SourceDocument, chunk.PositionIndex, chunk.Text); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

func (r *ChunkRepository) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, source_document, position_index, text
FROM chunks
ORDER BY source_document, position_index
`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.SourceDocument, &chunk.PositionIndex, &chunk.Text); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func (r *ChunkRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}
