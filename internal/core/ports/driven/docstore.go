package driven

import (
	"context"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Documents own their chunks: deleting a document cascades to its chunks.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// SaveChunks replaces the stored chunks for the chunks' document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (domain.Document, error)

	// GetDocumentBySourcePath retrieves a document by its source path.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocumentBySourcePath(ctx context.Context, sourcePath string) (domain.Document, error)

	// GetChunks retrieves a document's chunks in sequence order.
	// Returns ErrNotFound when the document does not exist; a stored
	// document with no chunks yields an empty slice.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetChunk(ctx context.Context, id string) (domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
