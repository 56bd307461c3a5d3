package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getclever/docqa/internal/core/domain"
	"github.com/getclever/docqa/internal/core/ports"
)

// Fixed user-facing texts. Refusals never echo query content back.
const (
	refusalText        = "I can only answer questions based on my available information."
	notInDocumentsText = "I don't have any relevant information to answer this question."
)

type AskParams struct {
	FusionAlpha       float64
	RerankTopN        int
	RerankTopK        int
	MinRerankScore    float64
	SupportThreshold  float64
	PromptBudget      int
	GenerationTimeout time.Duration
}

func (p AskParams) normalize() AskParams {
	if p.FusionAlpha <= 0 || p.FusionAlpha >= 1 {
		p.FusionAlpha = 0.65
	}
	if p.RerankTopN <= 0 {
		p.RerankTopN = 20
	}
	if p.RerankTopK <= 0 {
		p.RerankTopK = 5
	}
	if p.MinRerankScore <= 0 {
		p.MinRerankScore = 0.05
	}
	if p.SupportThreshold <= 0 {
		p.SupportThreshold = 0.35
	}
	if p.PromptBudget <= 0 {
		p.PromptBudget = 8000
	}
	if p.GenerationTimeout <= 0 {
		p.GenerationTimeout = 60 * time.Second
	}
	return p
}

// AskUseCase runs one query turn end to end: guardrail pre-check, follow-up
// resolution, hybrid retrieval, rerank, guardrail post-check, answer
// composition, history append. A turn either completes fully or leaves the
// session history untouched.
type AskUseCase struct {
	guardrail *GuardrailEngine
	resolver  *ContextResolver
	retriever *HybridRetriever
	generator ports.AnswerGenerator
	sessions  ports.SessionStore
	params    AskParams
	logger    *slog.Logger
}

func NewAskUseCase(
	guardrail *GuardrailEngine,
	resolver *ContextResolver,
	retriever *HybridRetriever,
	generator ports.AnswerGenerator,
	sessions ports.SessionStore,
	params AskParams,
	logger *slog.Logger,
) *AskUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AskUseCase{
		guardrail: guardrail,
		resolver:  resolver,
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
		params:    params.normalize(),
		logger:    logger,
	}
}

func (uc *AskUseCase) Ask(ctx context.Context, sessionID, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", fmt.Errorf("query is required"))
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", fmt.Errorf("session id is required"))
	}

	// Pre-check on the raw query. A block skips retrieval and generation
	// entirely; injection attempts are never handed to the generation
	// capability.
	if verdict := uc.guardrail.PreCheck(query); !verdict.Allowed {
		uc.logger.Info("query_blocked",
			"session_id", sessionID,
			"reason", verdict.ReasonCode,
			"rule", verdict.MatchedRule,
		)
		return &domain.Answer{
			Text:        refusalText,
			Citations:   []domain.Citation{},
			Band:        domain.ConfidenceLow,
			State:       domain.TurnBlocked,
			Verdict:     verdict.Code,
			MatchedRule: verdict.MatchedRule,
		}, nil
	}

	history := uc.sessions.History(sessionID)
	resolved := uc.resolver.Resolve(history, query)

	semantic, keyword, err := uc.retriever.Retrieve(ctx, resolved)
	if err != nil {
		return nil, err
	}

	fused := fuseCandidates(semantic, keyword, uc.params.FusionAlpha)
	reranked := rerankCandidates(resolved, fused, uc.params.RerankTopN, uc.params.RerankTopK, uc.params.MinRerankScore)

	// Post-check on the retrieved evidence. An empty reranked set is the
	// out-of-scope outcome; generation is never invoked for it.
	if verdict := uc.guardrail.PostCheck(reranked); !verdict.Allowed {
		uc.logger.Info("query_refused",
			"session_id", sessionID,
			"reason", verdict.ReasonCode,
			"fused_candidates", len(fused),
		)
		return &domain.Answer{
			Text:        notInDocumentsText,
			Citations:   []domain.Citation{},
			Band:        domain.ConfidenceLow,
			State:       domain.TurnRefused,
			Verdict:     verdict.Code,
			MatchedRule: verdict.MatchedRule,
		}, nil
	}

	prompt := buildAnswerPrompt(resolved, reranked, history.Turns(), uc.params.PromptBudget)

	genCtx, cancel := context.WithTimeout(ctx, uc.params.GenerationTimeout)
	defer cancel()
	text, err := uc.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationUnavailable, "generate answer", err)
	}

	citations := deriveCitations(reranked)
	confidence, band := scoreConfidence(reranked, uc.params.SupportThreshold)

	// History append is the last step: abandoning the turn at any earlier
	// point leaves no irreversible side effect.
	citedIDs := make([]string, 0, len(citations))
	for _, citation := range citations {
		citedIDs = append(citedIDs, citation.ChunkID)
	}
	history.Append(domain.ConversationTurn{
		Query:         query,
		ResolvedQuery: resolved,
		Answer:        text,
		CitedChunkIDs: citedIDs,
		Timestamp:     time.Now().UTC(),
	})

	return &domain.Answer{
		Text:       text,
		Citations:  citations,
		Confidence: confidence,
		Band:       band,
		State:      domain.TurnAnswered,
		Verdict:    domain.VerdictAllow,
	}, nil
}
