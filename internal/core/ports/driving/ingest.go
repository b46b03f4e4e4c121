package driving

import (
	"context"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// NewDocument is a raw document submitted for ingestion.
type NewDocument struct {
	// SourcePath is the document's origin (file path, URL).
	// Re-ingesting the same path with changed content supersedes the
	// previously stored chunks.
	SourcePath string

	// Content is the full raw text.
	Content string

	// Metadata contains arbitrary key-value pairs carried onto the
	// stored document.
	Metadata map[string]any
}

// IngestService turns raw documents into embedded, indexed chunks.
type IngestService interface {
	// Ingest validates, chunks, embeds and indexes the document, and
	// returns the document id. Ingestion is all-or-nothing per document:
	// chunks reach the vector index only after every embedding succeeded.
	// Re-ingestion with an unchanged content hash is a no-op returning
	// the existing id.
	Ingest(ctx context.Context, doc NewDocument) (string, error)

	// IngestPath ingests every supported file under path (a file or a
	// directory walked recursively) and returns the document ids.
	IngestPath(ctx context.Context, path string) ([]string, error)

	// Remove deletes a document, its chunks and its vectors.
	Remove(ctx context.Context, documentID string) error

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)
}
