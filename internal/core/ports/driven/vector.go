package driven

import "context"

// VectorIndex provides nearest-neighbour search over chunk embeddings.
// It is the sole component aware of the backing store's wire protocol;
// callers depend only on this contract.
type VectorIndex interface {
	// Upsert inserts or replaces the given points.
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search finds the k nearest neighbours to the query vector, ordered
	// by descending similarity. Hits carry their stored vectors so the
	// retriever can compute pairwise similarity during re-ranking.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// DeleteByDocument removes all points belonging to a document.
	// Supports re-ingestion and document removal.
	DeleteByDocument(ctx context.Context, documentID string) error

	// DeleteChunks removes the points with the given chunk ids.
	DeleteChunks(ctx context.Context, chunkIDs []string) error

	// Close releases resources.
	Close() error
}

// VectorPoint is a stored chunk vector with its metadata.
type VectorPoint struct {
	// ChunkID identifies the point.
	ChunkID string

	// DocumentID is the owning document, used for cascade deletion.
	DocumentID string

	// Vector is the chunk embedding.
	Vector []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Similarity is the cosine similarity score.
	Similarity float64

	// Vector is the stored embedding of the matched chunk.
	Vector []float32
}
