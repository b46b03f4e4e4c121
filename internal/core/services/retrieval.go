package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
	"github.com/praxos-ai/groundwork/internal/logger"
	"github.com/praxos-ai/groundwork/internal/vecmath"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// scoreTolerance treats marginal scores within this distance as equal,
// so tie-breaking stays deterministic across float orderings.
const scoreTolerance = 1e-12

// RetrieverService finds relevant chunks and re-ranks them with
// maximal marginal relevance.
type RetrieverService struct {
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
	settings    domain.RetrievalSettings
	retry       domain.RetrySettings
}

// NewRetrieverService creates a new retriever service.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
	settings domain.RetrievalSettings,
	retry domain.RetrySettings,
) *RetrieverService {
	return &RetrieverService{
		embedder:    embedder,
		vectorIndex: vectorIndex,
		docStore:    docStore,
		settings:    settings,
		retry:       retry,
	}
}

// Retrieve embeds the query, fetches fetchK candidates from the vector
// index and selects topK of them by MMR. Returns fewer than topK when
// the index holds fewer candidates.
func (s *RetrieverService) Retrieve(ctx context.Context, query string, topK int) (domain.RetrievalResult, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RetrievalResult{}, domain.ErrEmptyQuery
	}

	if topK <= 0 {
		topK = s.settings.TopK
	}
	fetchK := s.settings.FetchK
	if fetchK < topK {
		fetchK = topK
	}
	logger.Debug("Query: %q, topK=%d, fetchK=%d, lambda=%.2f", query, topK, fetchK, s.settings.Lambda)

	var queryVec []float32
	err := withRetry(ctx, s.retry, func(ctx context.Context) error {
		var embedErr error
		queryVec, embedErr = s.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, queryVec, fetchK)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Candidates: %d", len(hits))

	selected := mmr(hits, s.settings.Lambda, topK)

	chunks, err := s.hydrate(ctx, selected)
	if err != nil {
		return domain.RetrievalResult{}, err
	}
	logger.Info("Retrieved %d chunks", len(chunks))

	return domain.RetrievalResult{Query: query, Chunks: chunks}, nil
}

// hydrate loads the full chunk records for the selected hits. Chunks
// deleted since indexing are skipped, and ranks are compacted so the
// result stays contiguous.
func (s *RetrieverService) hydrate(ctx context.Context, selected []driven.VectorHit) ([]domain.ScoredChunk, error) {
	chunks := make([]domain.ScoredChunk, 0, len(selected))
	for _, hit := range selected {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Chunk %s missing from store, skipping", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		chunks = append(chunks, domain.ScoredChunk{
			Chunk:         chunk,
			Relevance:     hit.Similarity,
			DiversityRank: len(chunks),
		})
	}
	return chunks, nil
}

// mmr selects up to k candidates by maximal marginal relevance. The
// marginal score of a candidate is
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// so lambda 1 reproduces the raw relevance ordering and lambda 0
// maximises diversity. Ties go to the higher raw relevance, then to the
// earlier candidate rank.
func mmr(candidates []driven.VectorHit, lambda float64, k int) []driven.VectorHit {
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}

	selected := make([]driven.VectorHit, 0, k)
	remaining := make([]int, len(candidates))
	for i := range candidates {
		remaining[i] = i
	}

	// maxSim[i] is the highest similarity between candidate i and any
	// selected candidate, updated incrementally per selection.
	maxSim := make([]float64, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := 0.0
		for _, i := range remaining {
			score := lambda * candidates[i].Similarity
			if len(selected) > 0 {
				score -= (1 - lambda) * maxSim[i]
			}
			if best == -1 || score > bestScore+scoreTolerance {
				best, bestScore = i, score
				continue
			}
			if score > bestScore-scoreTolerance && candidates[i].Similarity > candidates[best].Similarity+scoreTolerance {
				best, bestScore = i, score
			}
		}

		picked := candidates[best]
		selected = append(selected, picked)

		next := remaining[:0]
		for _, i := range remaining {
			if i == best {
				continue
			}
			if sim := vecmath.Cosine(candidates[i].Vector, picked.Vector); sim > maxSim[i] {
				maxSim[i] = sim
			}
			next = append(next, i)
		}
		remaining = next
	}

	return selected
}
