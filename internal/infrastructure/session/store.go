package session

import (
	"sync"

	"github.com/getclever/docqa/internal/core/domain"
)

// Store keeps per-session conversation history in memory. Each session owns
// its own bounded History; histories are never shared across sessions.
type Store struct {
	capacity int

	mu       sync.Mutex
	sessions map[string]*domain.History
}

func NewStore(historyCapacity int) *Store {
	return &Store{
		capacity: historyCapacity,
		sessions: make(map[string]*domain.History),
	}
}

func (s *Store) History(sessionID string) *domain.History {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		history = domain.NewHistory(s.capacity)
		s.sessions[sessionID] = history
	}
	return history
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
