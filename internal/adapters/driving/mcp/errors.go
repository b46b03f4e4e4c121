// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask grounded questions against the ingested
// document corpus and manage it.
package mcp

import "errors"

// Errors returned when required ports are missing.
var (
	// ErrMissingChatService is returned when no chat service is provided.
	ErrMissingChatService = errors.New("mcp: chat service is required")

	// ErrMissingRetrievalService is returned when no retrieval service is provided.
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
)
