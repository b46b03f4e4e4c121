// Package domain defines the core business entities for Groundwork.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested corpus document
//   - Chunk: The unit of embedding and retrieval within a document
//   - Conversation / Turn: Bounded conversational memory
//   - RetrievalResult: A re-ranked set of scored chunks for a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
