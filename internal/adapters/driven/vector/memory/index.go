// Package memory provides an in-memory brute-force cosine vector index.
// Intended for tests and small local corpora; production deployments use
// the qdrant adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/vecmath"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu     sync.RWMutex
	points map[string]driven.VectorPoint
	byDoc  map[string]map[string]struct{}
}

// NewIndex creates an empty in-memory vector index.
func NewIndex() *Index {
	return &Index{
		points: make(map[string]driven.VectorPoint),
		byDoc:  make(map[string]map[string]struct{}),
	}
}

// Upsert inserts or replaces the given points.
func (x *Index) Upsert(_ context.Context, points []driven.VectorPoint) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range points {
		if old, ok := x.points[p.ChunkID]; ok && old.DocumentID != p.DocumentID {
			delete(x.byDoc[old.DocumentID], p.ChunkID)
		}
		x.points[p.ChunkID] = p
		if x.byDoc[p.DocumentID] == nil {
			x.byDoc[p.DocumentID] = make(map[string]struct{})
		}
		x.byDoc[p.DocumentID][p.ChunkID] = struct{}{}
	}
	return nil
}

// Search returns the k most cosine-similar points to the query, most
// similar first. Ties are broken by chunk id for deterministic results.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(x.points))
	for _, p := range x.points {
		hits = append(hits, driven.VectorHit{
			ChunkID:    p.ChunkID,
			DocumentID: p.DocumentID,
			Similarity: vecmath.Cosine(query, p.Vector),
			Vector:     p.Vector,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteByDocument removes all points belonging to a document.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for chunkID := range x.byDoc[documentID] {
		delete(x.points, chunkID)
	}
	delete(x.byDoc, documentID)
	return nil
}

// DeleteChunks removes the points with the given chunk ids.
func (x *Index) DeleteChunks(_ context.Context, chunkIDs []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, id := range chunkIDs {
		if p, ok := x.points[id]; ok {
			delete(x.byDoc[p.DocumentID], id)
			delete(x.points, id)
		}
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// Len returns the number of stored points.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.points)
}
