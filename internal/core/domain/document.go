package domain

import "time"

// Document represents an ingested corpus document.
// It is immutable once ingested; re-ingesting the same source path with a
// different content hash supersedes the document's chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourcePath is the original location (file path, URL, etc).
	SourcePath string

	// Content is the full raw text of the document.
	Content string

	// ContentHash is the SHA-256 hex digest of Content.
	// Used to detect unchanged re-ingestion.
	ContentHash string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// IngestedAt is when the document was last (re-)ingested.
	IngestedAt time.Time
}

// CharSpan is a half-open [Start, End) byte range into a document's content.
type CharSpan struct {
	Start int
	End   int
}

// Len returns the span length.
func (s CharSpan) Len() int {
	return s.End - s.Start
}

// Chunk represents the unit of embedding and retrieval within a document.
// Chunks of one document are ordered by Sequence and may overlap in their
// char spans by the configured overlap width.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	// Held for citation purposes; the document owns its chunks.
	DocumentID string

	// Sequence is the ordinal position within the document (reading order).
	Sequence int

	// Content is the text content of this chunk.
	Content string

	// Span is the byte range of Content within the document.
	Span CharSpan

	// Embedding is the vector representation. Nil until computed.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
