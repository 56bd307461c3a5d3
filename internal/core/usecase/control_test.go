package usecase

import (
	"context"
	"testing"

	"github.com/getclever/docqa/internal/core/domain"
)

func TestClearSessionClearsOnlyThatSession(t *testing.T) {
	sessions := newFakeSessionStore()
	sessions.History("s1").Append(domain.ConversationTurn{Query: "q1"})
	sessions.History("s2").Append(domain.ConversationTurn{Query: "q2"})

	uc := NewControlUseCase(sessions, &fakeVectorStore{}, &fakeKeywordIndex{}, &fakeChunkRepo{}, discardLogger())
	if err := uc.ClearSession(context.Background(), "s1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}

	if sessions.History("s1").Len() != 0 {
		t.Error("s1 history not cleared")
	}
	if sessions.History("s2").Len() != 1 {
		t.Error("s2 history was cleared too")
	}
}

func TestClearSessionRequiresID(t *testing.T) {
	uc := NewControlUseCase(newFakeSessionStore(), &fakeVectorStore{}, &fakeKeywordIndex{}, &fakeChunkRepo{}, discardLogger())
	if err := uc.ClearSession(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestResetIndexDropsEverything(t *testing.T) {
	vectorDB := &fakeVectorStore{}
	keyword := &fakeKeywordIndex{}
	chunks := &fakeChunkRepo{saved: []domain.Chunk{{ID: "a:0"}}}

	uc := NewControlUseCase(newFakeSessionStore(), vectorDB, keyword, chunks, discardLogger())
	if err := uc.ResetIndex(context.Background()); err != nil {
		t.Fatalf("ResetIndex: %v", err)
	}

	if vectorDB.dropCalls != 1 {
		t.Errorf("vector drop calls = %d, want 1", vectorDB.dropCalls)
	}
	if keyword.resetCalls != 1 {
		t.Errorf("keyword reset calls = %d, want 1", keyword.resetCalls)
	}
	if chunks.deleteAlls != 1 {
		t.Errorf("chunk delete calls = %d, want 1", chunks.deleteAlls)
	}
}
