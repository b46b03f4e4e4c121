package driving

import (
	"context"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// RetrievalService finds the chunks most relevant to a query, re-ranked
// for diversity with maximal marginal relevance.
type RetrievalService interface {
	// Retrieve embeds the query, fetches candidates from the vector
	// index and selects topK of them by MMR. Returns fewer than topK
	// when the index holds fewer candidates; that is not an error.
	// A topK of zero or less uses the configured default.
	Retrieve(ctx context.Context, query string, topK int) (domain.RetrievalResult, error)
}
