package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/praxos-ai/groundwork/internal/chunker"
	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
	"github.com/praxos-ai/groundwork/internal/logger"
	"github.com/praxos-ai/groundwork/internal/normalise"
)

// Ensure IngesterService implements the interface.
var _ driving.IngestService = (*IngesterService)(nil)

// supportedExtensions are the file types IngestPath picks up.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".docx": true,
}

// IngesterService turns raw documents into embedded, indexed chunks.
type IngesterService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	splitter    chunker.Chunker
	maxBytes    int
	retry       domain.RetrySettings
}

// NewIngesterService creates a new ingester service.
func NewIngesterService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	splitter chunker.Chunker,
	maxBytes int,
	retry domain.RetrySettings,
) *IngesterService {
	return &IngesterService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		splitter:    splitter,
		maxBytes:    maxBytes,
		retry:       retry,
	}
}

// Ingest validates, chunks, embeds and indexes a document. Chunks reach
// the vector index only after every embedding succeeded, so a document
// is either fully searchable or absent. Re-ingestion with an unchanged
// content hash is a no-op returning the existing id; changed content
// supersedes the previously stored chunks.
func (s *IngesterService) Ingest(ctx context.Context, doc driving.NewDocument) (string, error) {
	logger.Section("Ingestion")
	logger.Debug("Source: %q, %d bytes", doc.SourcePath, len(doc.Content))

	if strings.TrimSpace(doc.Content) == "" {
		return "", domain.ErrEmptyDocument
	}
	if s.maxBytes > 0 && len(doc.Content) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrDocumentTooLarge, len(doc.Content), s.maxBytes)
	}

	hash := contentHash(doc.Content)

	// Re-ingestion bookkeeping keyed on the source path.
	existing, oldChunkIDs, err := s.lookupExisting(ctx, doc.SourcePath)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ContentHash == hash {
		logger.Info("Content unchanged, skipping: %s", doc.SourcePath)
		return existing.ID, nil
	}

	record := domain.Document{
		ID:          uuid.NewString(),
		SourcePath:  doc.SourcePath,
		Content:     doc.Content,
		ContentHash: hash,
		Metadata:    doc.Metadata,
		IngestedAt:  time.Now().UTC(),
	}
	if existing != nil {
		// Keep the id stable across re-ingestions of the same path.
		record.ID = existing.ID
	}

	chunks, err := s.splitter.Chunk(ctx, &record)
	if err != nil {
		return "", fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return "", domain.ErrEmptyDocument
	}
	logger.Debug("Chunks: %d", len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return "", err
	}

	points := make([]driven.VectorPoint, len(chunks))
	for i, c := range chunks {
		points[i] = driven.VectorPoint{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Vector:     c.Embedding,
		}
	}
	if err := s.vectorIndex.Upsert(ctx, points); err != nil {
		return "", fmt.Errorf("index chunks: %w", err)
	}

	if err := s.docStore.SaveDocument(ctx, record); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return "", fmt.Errorf("save chunks: %w", err)
	}

	// Superseded points are removed only after the new ones are live, so
	// retrieval never observes a half-ingested document.
	s.cleanupSuperseded(ctx, chunks, oldChunkIDs)

	logger.Info("Ingested %s: %d chunks", doc.SourcePath, len(chunks))
	return record.ID, nil
}

// IngestPath ingests a file, or every supported file under a directory
// walked recursively. Returns the ids of all ingested documents.
func (s *IngesterService) IngestPath(ctx context.Context, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		id, err := s.ingestFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}

	var ids []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		id, err := s.ingestFile(ctx, p)
		if err != nil {
			// A rejected file (empty, oversized, corrupt) is skipped so
			// one bad file cannot abort a corpus walk.
			if errors.Is(err, domain.ErrInvalidInput) {
				logger.Warn("Skipping %s: %v", p, err)
				return nil
			}
			return fmt.Errorf("ingest %s: %w", p, err)
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Remove deletes a document, its chunks and its vectors.
func (s *IngesterService) Remove(ctx context.Context, documentID string) error {
	if err := s.vectorIndex.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Info("Removed document %s", documentID)
	return nil
}

// List returns all ingested documents.
func (s *IngesterService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// ingestFile reads, normalises and ingests one file.
func (s *IngesterService) ingestFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	prepared, err := normalise.File(path, data)
	if err != nil {
		return "", fmt.Errorf("normalise %s: %w", path, err)
	}
	return s.Ingest(ctx, driving.NewDocument{
		SourcePath: path,
		Content:    prepared.Content,
		Metadata:   prepared.Metadata,
	})
}

// lookupExisting returns the stored document for a source path and its
// chunk ids, or nil when the path has not been ingested before.
func (s *IngesterService) lookupExisting(ctx context.Context, sourcePath string) (*domain.Document, []string, error) {
	if sourcePath == "" {
		return nil, nil, nil
	}

	existing, err := s.docStore.GetDocumentBySourcePath(ctx, sourcePath)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("lookup document: %w", err)
	}

	chunks, err := s.docStore.GetChunks(ctx, existing.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup chunks: %w", err)
	}
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}

	return &existing, ids, nil
}

// embedChunks fills in the embedding of every chunk, batched through the
// embedding service. All-or-nothing: any failure aborts the ingestion.
func (s *IngesterService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	var vectors [][]float32
	err := withRetry(ctx, s.retry, func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = s.embedder.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// cleanupSuperseded removes old vector points that were not replaced by
// the new upsert. Best-effort: stale points only waste space, retrieval
// skips them once their chunks are gone from the store.
func (s *IngesterService) cleanupSuperseded(ctx context.Context, chunks []domain.Chunk, oldChunkIDs []string) {
	if len(oldChunkIDs) == 0 {
		return
	}

	current := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		current[c.ID] = true
	}

	var stale []string
	for _, id := range oldChunkIDs {
		if !current[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := s.vectorIndex.DeleteChunks(ctx, stale); err != nil {
		logger.Warn("Failed to delete %d superseded vectors: %v", len(stale), err)
	}
}

// contentHash returns the hex SHA-256 of the document content.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
