package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to answer from the document corpus"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation identifier for follow-up questions (default 'default')"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string   `json:"answer"`
	CitedChunkIDs []string `json:"cited_chunk_ids,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to find relevant passages for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of passages to return (default from configuration)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []RetrievedChunk `json:"chunks"`
	Count  int              `json:"count"`
}

// RetrievedChunk represents a single retrieved passage.
type RetrievedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Content    string  `json:"content"`
	Relevance  float64 `json:"relevance"`
	Rank       int     `json:"rank"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	SourcePath string `json:"source_path,omitempty" jsonschema:"origin of the document, used to supersede earlier versions"`
	Content    string `json:"content" jsonschema:"the raw document text to ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the ingested documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the document passages most relevant to a query",
	}, s.handleRetrieve)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Add a document to the corpus",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	conversationID := input.ConversationID
	if conversationID == "" {
		conversationID = "default"
	}

	answer, err := s.ports.Chat.Answer(ctx, conversationID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:        answer.Text,
		CitedChunkIDs: answer.CitedChunkIDs,
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	result, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]RetrievedChunk, len(result.Chunks)),
		Count:  len(result.Chunks),
	}
	for i, c := range result.Chunks {
		output.Chunks[i] = RetrievedChunk{
			ChunkID:    c.Chunk.ID,
			DocumentID: c.Chunk.DocumentID,
			Content:    c.Chunk.Content,
			Relevance:  c.Relevance,
			Rank:       c.DiversityRank,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	id, err := s.ports.Ingest.Ingest(ctx, driving.NewDocument{
		SourcePath: input.SourcePath,
		Content:    input.Content,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{DocumentID: id}, nil
}
