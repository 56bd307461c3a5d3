package domain

import "time"

// HistoryCapacity bounds conversation history to the most recent turns.
const HistoryCapacity = 3

type ConversationTurn struct {
	Query         string    `json:"query"`
	ResolvedQuery string    `json:"resolved_query"`
	Answer        string    `json:"answer"`
	CitedChunkIDs []string  `json:"cited_chunk_ids,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// History is a bounded FIFO of completed conversation turns. It is owned by a
// single session; callers must not share one History across sessions.
type History struct {
	capacity int
	turns    []ConversationTurn
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{capacity: capacity}
}

// Append records a completed turn, evicting the oldest when full.
func (h *History) Append(turn ConversationTurn) {
	h.turns = append(h.turns, turn)
	if len(h.turns) > h.capacity {
		h.turns = h.turns[len(h.turns)-h.capacity:]
	}
}

// Turns returns the retained turns, oldest first. The returned slice is a
// copy; mutating it does not affect the history.
func (h *History) Turns() []ConversationTurn {
	out := make([]ConversationTurn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Last returns the most recent turn, if any.
func (h *History) Last() (ConversationTurn, bool) {
	if len(h.turns) == 0 {
		return ConversationTurn{}, false
	}
	return h.turns[len(h.turns)-1], true
}

func (h *History) Len() int { return len(h.turns) }

func (h *History) Clear() { h.turns = nil }
