package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getclever/docqa/internal/config"
	"github.com/getclever/docqa/internal/core/ports"
	"github.com/getclever/docqa/internal/core/usecase"
	"github.com/getclever/docqa/internal/infrastructure/chunking"
	"github.com/getclever/docqa/internal/infrastructure/extractor/plaintext"
	"github.com/getclever/docqa/internal/infrastructure/keyword"
	"github.com/getclever/docqa/internal/infrastructure/llm/ollama"
	"github.com/getclever/docqa/internal/infrastructure/queue/nats"
	"github.com/getclever/docqa/internal/infrastructure/repository/postgres"
	"github.com/getclever/docqa/internal/infrastructure/resilience"
	"github.com/getclever/docqa/internal/infrastructure/session"
	"github.com/getclever/docqa/internal/infrastructure/storage/localfs"
	"github.com/getclever/docqa/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	AskUC     ports.SessionQueryService
	ControlUC ports.SessionControl
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunkRepo := postgres.NewChunkRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	// Generation gets one retry; a second slow attempt is already at the
	// edge of the turn deadline.
	generationExecutor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 500 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Second,
		RetryMultiplier:     2.0,
		BreakerEnabled:      true,
	})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(ollama.Options{
		BaseURL:            cfg.OllamaURL,
		GenerationModel:    cfg.OllamaGenModel,
		EmbeddingModel:     cfg.OllamaEmbedModel,
		ResilienceExecutor: generationExecutor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extractor := plaintext.NewExtractor(storage)

	keywordIndex := keyword.NewIndex(0, 0)
	if err := rebuildKeywordIndex(ctx, chunkRepo, keywordIndex, logger); err != nil {
		return nil, err
	}

	sessions := session.NewStore(cfg.HistoryTurns)

	guardrailRules, err := config.LoadGuardrailRules(cfg.GuardrailRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load guardrail rules: %w", err)
	}
	guardrail := usecase.NewGuardrailEngine(guardrailRules, cfg.MaxQueryLen)
	resolver := usecase.NewContextResolver()

	retriever := usecase.NewHybridRetriever(
		embedder,
		vectorDB,
		keywordIndex,
		cfg.HybridCandidates,
		time.Duration(cfg.RetrievalTimeoutSeconds)*time.Second,
		logger,
	)

	askUC := usecase.NewAskUseCase(guardrail, resolver, retriever, generator, sessions, usecase.AskParams{
		FusionAlpha:       cfg.FusionAlpha,
		RerankTopN:        cfg.RerankTopN,
		RerankTopK:        cfg.RerankTopK,
		MinRerankScore:    cfg.MinRerankScore,
		SupportThreshold:  cfg.SupportThreshold,
		PromptBudget:      cfg.PromptBudgetChars,
		GenerationTimeout: time.Duration(cfg.GenerationTimeoutSeconds) * time.Second,
	}, logger)

	controlUC := usecase.NewControlUseCase(sessions, vectorDB, keywordIndex, chunkRepo, logger)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, chunkRepo, extractor, chunker, embedder, vectorDB, keywordIndex)

	return &App{
		Config: cfg,
		Logger: logger,
		Queue:  queue,
		Repo:   repo,

		AskUC:     askUC,
		ControlUC: controlUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// rebuildKeywordIndex reloads persisted chunks into the in-memory index so
// keyword search survives restarts.
func rebuildKeywordIndex(ctx context.Context, chunkRepo ports.ChunkRepository, index ports.KeywordIndex, logger *slog.Logger) error {
	chunks, err := chunkRepo.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("rebuild keyword index: %w", err)
	}
	index.Add(chunks)
	logger.Info("keyword_index_rebuilt", "chunks", len(chunks))
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
