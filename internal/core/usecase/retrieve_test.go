package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/getclever/docqa/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetrieveReturnsBothLists(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	vectorDB := &fakeVectorStore{searchResult: []domain.Candidate{
		{ChunkID: "a:0", SemanticScore: 0.9},
	}}
	keyword := &fakeKeywordIndex{searchResult: []domain.Candidate{
		{ChunkID: "a:1", KeywordScore: 0.7},
	}}

	r := NewHybridRetriever(embedder, vectorDB, keyword, 30, 0, discardLogger())
	semantic, kw, err := r.Retrieve(context.Background(), "refund policy")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(semantic) != 1 || semantic[0].ChunkID != "a:0" {
		t.Errorf("semantic = %+v", semantic)
	}
	if len(kw) != 1 || kw[0].ChunkID != "a:1" {
		t.Errorf("keyword = %+v", kw)
	}
	if embedder.calls != 1 {
		t.Errorf("embedder calls = %d, want 1", embedder.calls)
	}
}

func TestRetrieveDegradesToKeywordOnSemanticFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedding backend down")}
	keyword := &fakeKeywordIndex{searchResult: []domain.Candidate{
		{ChunkID: "a:1", KeywordScore: 0.7},
	}}

	r := NewHybridRetriever(embedder, &fakeVectorStore{}, keyword, 30, 0, discardLogger())
	semantic, kw, err := r.Retrieve(context.Background(), "refund policy")
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}
	if semantic != nil {
		t.Errorf("semantic = %+v, want nil after degradation", semantic)
	}
	if len(kw) != 1 {
		t.Errorf("keyword = %+v, want the keyword candidates", kw)
	}
}

func TestRetrieveFailsWhenNothingToDegradeTo(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedding backend down")}
	keyword := &fakeKeywordIndex{}

	r := NewHybridRetriever(embedder, &fakeVectorStore{}, keyword, 30, 0, discardLogger())
	_, _, err := r.Retrieve(context.Background(), "refund policy")
	if err == nil {
		t.Fatal("expected error when both scorers come back empty-handed")
	}
	if !domain.IsKind(err, domain.ErrRetrievalUnavailable) {
		t.Errorf("error kind = %v, want ErrRetrievalUnavailable", err)
	}
}

func TestRetrieveVectorSearchFailureAlsoDegrades(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	vectorDB := &fakeVectorStore{searchErr: errors.New("collection missing")}
	keyword := &fakeKeywordIndex{searchResult: []domain.Candidate{
		{ChunkID: "a:1", KeywordScore: 0.5},
	}}

	r := NewHybridRetriever(embedder, vectorDB, keyword, 30, 0, discardLogger())
	semantic, kw, err := r.Retrieve(context.Background(), "refund policy")
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}
	if semantic != nil || len(kw) != 1 {
		t.Errorf("semantic = %+v keyword = %+v", semantic, kw)
	}
}

func TestReindexResetsThenAdds(t *testing.T) {
	keyword := &fakeKeywordIndex{}
	r := NewHybridRetriever(&fakeEmbedder{}, &fakeVectorStore{}, keyword, 30, 0, discardLogger())

	chunks := []domain.Chunk{{ID: "a:0", Text: "hello"}}
	if err := r.Reindex(chunks); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if keyword.resetCalls != 1 {
		t.Errorf("reset calls = %d, want 1", keyword.resetCalls)
	}
	if len(keyword.added) != 1 {
		t.Errorf("added = %d chunks, want 1", len(keyword.added))
	}
}
