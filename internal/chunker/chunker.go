// Package chunker splits raw document text into bounded, overlapping or
// semantically coherent passages, the unit of embedding and retrieval.
package chunker

import (
	"context"
	"fmt"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Chunker splits a document into chunks with tracked char spans.
// An empty document yields zero chunks and a nil error.
type Chunker interface {
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}

// New returns the chunker selected by the settings. The two strategies are
// mutually exclusive; the semantic strategy requires an embedding service.
func New(cfg domain.ChunkingSettings, embedder driven.EmbeddingService) (Chunker, error) {
	switch cfg.Strategy {
	case domain.ChunkStrategyRecursive, "":
		return NewRecursive(cfg), nil
	case domain.ChunkStrategySemantic:
		if embedder == nil {
			return nil, fmt.Errorf("semantic chunking: %w", domain.ErrEmbeddingUnavailable)
		}
		return NewSemantic(cfg, embedder), nil
	default:
		return nil, fmt.Errorf("chunking strategy %q: %w", cfg.Strategy, domain.ErrInvalidInput)
	}
}

// piece is a half-open [start, end) span into the document content.
// Pieces produced by splitting are contiguous and cover the whole text.
type piece struct {
	start int
	end   int
}
