package driving

import (
	"context"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// ChatService answers user questions grounded in the document corpus.
type ChatService interface {
	// Answer retrieves relevant chunks, assembles a bounded prompt from
	// the conversation window and the retrieved context, calls the LLM
	// and records the exchange in conversation memory. On LLM failure
	// no turns are recorded and the error is surfaced.
	Answer(ctx context.Context, conversationID, message string) (domain.Answer, error)

	// ResetConversation discards the conversation's memory.
	ResetConversation(ctx context.Context, conversationID string) error
}
