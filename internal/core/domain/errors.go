package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Input is rejected before any external call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a blank retrieval query.
	ErrEmptyQuery = fmt.Errorf("%w: empty query", ErrInvalidInput)

	// ErrEmptyDocument indicates a document with no content.
	ErrEmptyDocument = fmt.Errorf("%w: empty document", ErrInvalidInput)

	// ErrDocumentTooLarge indicates a document exceeding the configured
	// maximum raw size.
	ErrDocumentTooLarge = fmt.Errorf("%w: document too large", ErrInvalidInput)

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// ErrorKind classifies a provider failure for retry decisions.
type ErrorKind int

// Provider failure classes.
const (
	// KindUnknown is an unclassified failure. Not retried.
	KindUnknown ErrorKind = iota

	// KindTimeout is a deadline or cancellation failure. Retried.
	KindTimeout

	// KindRateLimited is a quota or throttling failure. Retried.
	KindRateLimited

	// KindUnavailable is a transient backend failure (5xx-equivalent). Retried.
	KindUnavailable

	// KindAuth is an authentication or authorisation failure. Never retried.
	KindAuth

	// KindRejected is a content-policy or validation rejection by the
	// provider. Never retried.
	KindRejected
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindAuth:
		return "auth"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Transient reports whether failures of this kind may succeed on retry.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindTimeout, KindRateLimited, KindUnavailable:
		return true
	default:
		return false
	}
}

// ProviderError wraps a failure from an external embedding or LLM backend.
type ProviderError struct {
	// Provider names the backend ("openai", "ollama", "anthropic").
	Provider string

	// Op is the failing operation ("embed", "chat", "ping").
	Op string

	// Kind classifies the failure for retry decisions.
	Kind ErrorKind

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure from a vector index or metadata store.
type StoreError struct {
	// Store names the backend ("qdrant", "sqlite").
	Store string

	// Op is the failing operation ("upsert", "search", "delete").
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Store, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a provider failure that may succeed
// on retry (timeout, rate limit, backend unavailable).
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind.Transient()
	}
	return false
}
