package driven

import (
	"context"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// ConversationStore maintains the bounded turn window per conversation.
//
// Implementations must serialise appends per conversation id so that
// concurrent requests against the same conversation cannot interleave
// turn writes. Unknown ids are fresh, empty conversations, not errors.
type ConversationStore interface {
	// AppendTurns appends the given turns atomically, in order, and
	// evicts the oldest turns beyond the configured window (strict FIFO).
	AppendTurns(ctx context.Context, conversationID string, turns ...domain.Turn) error

	// Window returns at most n of the most recent turns, oldest first.
	Window(ctx context.Context, conversationID string, n int) ([]domain.Turn, error)

	// Delete removes the conversation and all its turns.
	Delete(ctx context.Context, conversationID string) error
}
