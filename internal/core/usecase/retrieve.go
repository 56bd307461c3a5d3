package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getclever/docqa/internal/core/domain"
	"github.com/getclever/docqa/internal/core/ports"
)

// HybridRetriever runs the keyword and semantic scorers for one query.
// The two scorers are independent, so they run fork-join purely for latency;
// fusion waits on both. A semantic failure degrades the turn to keyword-only
// search instead of failing it, as long as the keyword side produced
// candidates.
type HybridRetriever struct {
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
	keyword    ports.KeywordIndex
	candidates int
	timeout    time.Duration
	logger     *slog.Logger
}

func NewHybridRetriever(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	keyword ports.KeywordIndex,
	candidates int,
	timeout time.Duration,
	logger *slog.Logger,
) *HybridRetriever {
	if candidates <= 0 {
		candidates = 30
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridRetriever{
		embedder:   embedder,
		vectorDB:   vectorDB,
		keyword:    keyword,
		candidates: candidates,
		timeout:    timeout,
		logger:     logger,
	}
}

// Retrieve returns the semantic and keyword candidate lists for the resolved
// query. It returns ErrRetrievalUnavailable only when the semantic path
// failed and the keyword path has nothing to degrade to.
func (r *HybridRetriever) Retrieve(ctx context.Context, resolvedQuery string) (semantic, keyword []domain.Candidate, err error) {
	type semanticResult struct {
		candidates []domain.Candidate
		err        error
	}
	semanticCh := make(chan semanticResult, 1)

	go func() {
		candidates, err := r.semanticSearch(ctx, resolvedQuery)
		semanticCh <- semanticResult{candidates: candidates, err: err}
	}()

	keyword = r.keyword.Search(resolvedQuery, r.candidates)
	result := <-semanticCh

	if result.err != nil {
		if len(keyword) == 0 {
			return nil, nil, result.err
		}
		r.logger.Warn("semantic_search_degraded",
			"error", result.err,
			"keyword_candidates", len(keyword),
		)
		return nil, keyword, nil
	}
	return result.candidates, keyword, nil
}

func (r *HybridRetriever) semanticSearch(ctx context.Context, query string) ([]domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed query", err)
	}

	candidates, err := r.vectorDB.Search(ctx, vector, r.candidates)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "vector search", err)
	}
	return candidates, nil
}

// Reindex drops and rebuilds the keyword index from the persisted corpus.
func (r *HybridRetriever) Reindex(chunks []domain.Chunk) error {
	if r.keyword == nil {
		return fmt.Errorf("keyword index is not configured")
	}
	r.keyword.Reset()
	r.keyword.Add(chunks)
	return nil
}
