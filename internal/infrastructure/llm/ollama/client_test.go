package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/getclever/docqa/internal/core/domain"
	"github.com/getclever/docqa/internal/infrastructure/resilience"
)

func TestGeneratorSendsPromptVerbatim(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"  the refund window is 30 days  "}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(Options{BaseURL: server.URL, GenerationModel: "gen", EmbeddingModel: "embed"}))
	answer, err := gen.Generate(context.Background(), "prompt with context")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if capturedPrompt != "prompt with context" {
		t.Fatalf("prompt must pass through unchanged, got %q", capturedPrompt)
	}
	if answer != "the refund window is 30 days" {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusNotFound)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(Options{BaseURL: server.URL, GenerationModel: "gen", EmbeddingModel: "embed"}))
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestGenerateRetriesRetryableStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1,
	})
	gen := NewGenerator(New(Options{
		BaseURL:            server.URL,
		GenerationModel:    "gen",
		EmbeddingModel:     "embed",
		ResilienceExecutor: executor,
	}))

	answer, err := gen.Generate(context.Background(), "q")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "ok" {
		t.Fatalf("expected retried answer, got %q", answer)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestGenerateWrapsRetryableAsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1,
	})
	gen := NewGenerator(New(Options{
		BaseURL:            server.URL,
		GenerationModel:    "gen",
		EmbeddingModel:     "embed",
		ResilienceExecutor: executor,
	}))

	_, err := gen.Generate(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
}
