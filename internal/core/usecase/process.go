package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/getclever/docqa/internal/core/domain"
	"github.com/getclever/docqa/internal/core/ports"
)

// ProcessDocumentUseCase turns an uploaded document into indexed chunks:
// extract text, split, embed once, index into the vector store, the keyword
// index and the chunk repository. Chunk identity is the stable
// (source document, position) pair.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	chunkRepo ports.ChunkRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	keyword   ports.KeywordIndex
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	chunkRepo ports.ChunkRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	keyword ports.KeywordIndex,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		chunkRepo: chunkRepo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		keyword:   keyword,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	pieces := uc.chunker.Split(text)
	if len(pieces) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:             domain.ChunkID(doc.Filename, i),
			Text:           piece,
			SourceDocument: doc.Filename,
			PositionIndex:  i,
		})
	}

	vectors, err := uc.embedder.Embed(ctx, pieces)
	if err != nil {
		return domain.WrapError(domain.ErrRetrievalUnavailable, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.vectorDB.IndexChunks(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector db: %w", err)
	}
	if err := uc.chunkRepo.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}
	if err := uc.repo.UpdateChunkCount(ctx, doc.ID, len(chunks)); err != nil {
		return fmt.Errorf("persist chunk count: %w", err)
	}
	uc.keyword.Add(chunks)

	return nil
}
