// Package memory provides in-memory storage adapters, primarily for
// tests and ephemeral runs where persistence is not required.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of the document store.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	bySource  map[string]string
	chunks    map[string]domain.Chunk
	byDoc     map[string][]string
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		bySource:  make(map[string]string),
		chunks:    make(map[string]domain.Chunk),
		byDoc:     make(map[string][]string),
	}
}

// SaveDocument stores or replaces a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.documents[doc.ID]; ok && prev.SourcePath != doc.SourcePath {
		delete(s.bySource, prev.SourcePath)
	}
	s.documents[doc.ID] = doc
	if doc.SourcePath != "" {
		s.bySource[doc.SourcePath] = doc.ID
	}
	return nil
}

// SaveChunks replaces the stored chunks for the chunks' document.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docID := chunks[0].DocumentID
	for _, id := range s.byDoc[docID] {
		delete(s.chunks, id)
	}

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		s.chunks[c.ID] = c
		ids[i] = c.ID
	}
	s.byDoc[docID] = ids
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

// GetDocumentBySourcePath retrieves a document by its source path.
func (s *DocumentStore) GetDocumentBySourcePath(_ context.Context, path string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySource[path]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return s.documents[id], nil
}

// GetChunks retrieves all chunks of a document ordered by sequence.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.documents[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	ids := s.byDoc[documentID]
	chunks := make([]domain.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			chunks = append(chunks, c)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Sequence < chunks[j].Sequence })
	return chunks, nil
}

// GetChunk retrieves a single chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chunks[id]
	if !ok {
		return domain.Chunk{}, domain.ErrNotFound
	}
	return c, nil
}

// DeleteDocument removes a document and all of its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.bySource, doc.SourcePath)
	for _, cid := range s.byDoc[id] {
		delete(s.chunks, cid)
	}
	delete(s.byDoc, id)
	return nil
}

// ListDocuments returns all stored documents ordered by ingestion time.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].IngestedAt.Equal(docs[j].IngestedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].IngestedAt.Before(docs[j].IngestedAt)
	})
	return docs, nil
}
