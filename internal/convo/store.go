// Package convo keeps bounded per-conversation turn history. It is the
// only core-owned mutable shared state: volatile working memory, keyed by
// conversation id, with FIFO eviction at a fixed capacity.
package convo

import (
	"sync"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// DefaultCapacity is the bounded history length per conversation.
const DefaultCapacity = 3

// Store holds turn history per conversation id. Conversations never
// interact, so one mutex over the map is enough at this scale. History is
// never expired on a timer: it lives until Clear or process exit.
type Store struct {
	mu       sync.Mutex
	capacity int
	turns    map[string][]types.Turn
}

// NewStore creates a store with the given capacity per conversation.
// Non-positive capacity falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		turns:    make(map[string][]types.Turn),
	}
}

// Get returns the turns for a conversation, oldest first. A conversation
// is created empty on first access. The returned slice is a copy.
func (s *Store) Get(conversationID string) []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.turns[conversationID]
	if !ok {
		s.turns[conversationID] = nil
		return nil
	}
	out := make([]types.Turn, len(history))
	copy(out, history)
	return out
}

// Append pushes a turn onto a conversation's history, evicting the oldest
// turn when the capacity is exceeded.
func (s *Store) Append(conversationID string, turn types.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[conversationID], turn)
	if len(history) > s.capacity {
		history = history[len(history)-s.capacity:]
	}
	s.turns[conversationID] = history

	logging.ConvoDebug("append conversation=%s role=%s len=%d", conversationID, turn.Role, len(history))
}

// Clear drops a conversation's history entirely. Called by the transport
// when a conversation topic ends.
func (s *Store) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, conversationID)
	logging.ConvoDebug("clear conversation=%s", conversationID)
}

// Len returns the current history length for a conversation.
func (s *Store) Len(conversationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns[conversationID])
}
