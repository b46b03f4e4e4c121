package memory

import (
	"context"
	"sync"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// DefaultCapacity is the number of turns retained per conversation
// when no capacity is configured.
const DefaultCapacity = 10

// ConversationStore is an in-memory implementation of the conversation
// store. Each conversation holds at most capacity turns; appending
// beyond capacity evicts the oldest turns first.
type ConversationStore struct {
	mu       sync.Mutex
	capacity int
	turns    map[string][]domain.Turn
}

// NewConversationStore creates an in-memory conversation store holding
// at most capacity turns per conversation.
func NewConversationStore(capacity int) *ConversationStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ConversationStore{
		capacity: capacity,
		turns:    make(map[string][]domain.Turn),
	}
}

// AppendTurns appends turns to a conversation atomically. Either all
// turns are recorded or none are.
func (s *ConversationStore) AppendTurns(_ context.Context, conversationID string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := append(s.turns[conversationID], turns...)
	if over := len(existing) - s.capacity; over > 0 {
		existing = existing[over:]
	}
	s.turns[conversationID] = existing
	return nil
}

// Window returns up to n of the most recent turns, oldest first. A
// conversation with no recorded turns yields an empty window.
func (s *ConversationStore) Window(_ context.Context, conversationID string, n int) ([]domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[conversationID]
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Delete removes all turns of a conversation. Deleting an unknown
// conversation is a no-op.
func (s *ConversationStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, conversationID)
	return nil
}
