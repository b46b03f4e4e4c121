package mcp

import (
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers grounded questions.
	Chat driving.ChatService

	// Retrieval finds relevant chunks without generation.
	Retrieval driving.RetrievalService

	// Ingest manages the document corpus. Optional; the ingest tool is
	// not registered when nil.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
