package session

import (
	"sync"
	"testing"

	"github.com/getclever/docqa/internal/core/domain"
)

func TestHistoryIsPerSession(t *testing.T) {
	store := NewStore(3)

	a := store.History("session-a")
	b := store.History("session-b")
	if a == b {
		t.Fatal("distinct sessions must not share a history")
	}

	a.Append(domain.ConversationTurn{Query: "what is the refund policy"})
	if b.Len() != 0 {
		t.Fatal("appending to one session leaked into another")
	}
	if store.History("session-a").Len() != 1 {
		t.Fatal("expected the same history instance on repeated lookup")
	}
}

func TestClearDropsSession(t *testing.T) {
	store := NewStore(3)
	store.History("session-a").Append(domain.ConversationTurn{Query: "q"})

	store.Clear("session-a")
	if store.Len() != 0 {
		t.Fatalf("expected no sessions after clear, got %d", store.Len())
	}
	if store.History("session-a").Len() != 0 {
		t.Fatal("cleared session must start with empty history")
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore(3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := store.History("shared")
			h.Len()
			store.Clear("other")
		}()
	}
	wg.Wait()

	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
}
