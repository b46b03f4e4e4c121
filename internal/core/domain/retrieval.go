package domain

// ScoredChunk is a chunk selected for a query, with its relevance score and
// its rank in the diversity re-ranked ordering.
type ScoredChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// Relevance is the raw similarity between the chunk and the query.
	Relevance float64

	// DiversityRank is the chunk's position in the re-ranked
	// (maximal marginal relevance) ordering, starting at 0.
	DiversityRank int
}

// RetrievalResult is the re-ranked outcome of a retrieval query.
// It is produced per query and never persisted.
type RetrievalResult struct {
	// Query is the original query text.
	Query string

	// Chunks are the selected chunks in diversity-rank order.
	// May hold fewer than the requested top-k when the index
	// has fewer candidates.
	Chunks []ScoredChunk
}

// Answer is a grounded answer produced for a conversation turn.
type Answer struct {
	// Text is the model's answer.
	Text string

	// CitedChunkIDs are the ids of chunks actually included in the
	// prompt, in the order they appeared.
	CitedChunkIDs []string
}
