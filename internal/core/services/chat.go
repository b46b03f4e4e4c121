package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
	"github.com/praxos-ai/groundwork/internal/logger"
	"github.com/praxos-ai/groundwork/internal/tokens"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// systemPromptTemplate frames the assistant and carries the retrieved
// context. The %s placeholders are the company name (twice) and the
// concatenated context passages.
const systemPromptTemplate = `You are a helpful assistant for %s. Answer questions using only the provided context from %s's internal documents. If the context does not contain the answer, say so instead of guessing.

Context:
%s`

// noContextNote replaces the context section when retrieval found
// nothing, so the model still knows it must not invent material.
const noContextNote = "(no relevant documents were found)"

// ChatConfig bundles the settings the chat service needs.
type ChatConfig struct {
	CompanyName string
	Memory      domain.MemorySettings
	Prompt      domain.PromptSettings
	CallTimeout time.Duration
	Retry       domain.RetrySettings
}

// ChatService answers user questions grounded in the document corpus,
// with a bounded conversation memory per conversation id.
type ChatService struct {
	retriever driving.RetrievalService
	convStore driven.ConversationStore
	llm       driven.LLMService
	counter   tokens.Counter
	cfg       ChatConfig
}

// NewChatService creates a new chat service. The token counter should
// match the LLM in use; a heuristic counter is acceptable.
func NewChatService(
	retriever driving.RetrievalService,
	convStore driven.ConversationStore,
	llm driven.LLMService,
	counter tokens.Counter,
	cfg ChatConfig,
) *ChatService {
	if cfg.CompanyName == "" {
		cfg.CompanyName = "the company"
	}
	return &ChatService{
		retriever: retriever,
		convStore: convStore,
		llm:       llm,
		counter:   counter,
		cfg:       cfg,
	}
}

// Answer retrieves relevant chunks, assembles a token-budgeted prompt
// from the conversation window and the retrieved context, calls the LLM
// and records the exchange. On LLM failure no turns are recorded.
func (s *ChatService) Answer(ctx context.Context, conversationID, message string) (domain.Answer, error) {
	logger.Section("Chat")

	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Answer{}, domain.ErrEmptyQuery
	}

	window, err := s.convStore.Window(ctx, conversationID, s.cfg.Memory.WindowSize)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("load conversation: %w", err)
	}
	logger.Debug("Conversation %q: %d prior turns", conversationID, len(window))

	result, err := s.retriever.Retrieve(ctx, message, 0)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	messages, citedIDs := s.assemblePrompt(window, result.Chunks, message)
	logger.Debug("Prompt: %d messages, %d cited chunks", len(messages), len(citedIDs))

	var text string
	err = withRetry(ctx, s.cfg.Retry, func(ctx context.Context) error {
		callCtx := ctx
		if s.cfg.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
			defer cancel()
		}
		var llmErr error
		text, llmErr = s.llm.Chat(callCtx, messages, driven.ChatOptions{
			MaxTokens:   s.cfg.Prompt.MaxAnswerTokens,
			Temperature: s.cfg.Prompt.Temperature,
		})
		return llmErr
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	now := time.Now().UTC()
	err = s.convStore.AppendTurns(ctx, conversationID,
		domain.Turn{Role: domain.RoleUser, Content: message, CreatedAt: now},
		domain.Turn{Role: domain.RoleAssistant, Content: text, CreatedAt: now},
	)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("record turns: %w", err)
	}

	logger.Info("Answered conversation %q", conversationID)
	return domain.Answer{Text: text, CitedChunkIDs: citedIDs}, nil
}

// ResetConversation discards the conversation's memory.
func (s *ChatService) ResetConversation(ctx context.Context, conversationID string) error {
	if err := s.convStore.Delete(ctx, conversationID); err != nil {
		return fmt.Errorf("reset conversation: %w", err)
	}
	return nil
}

// assemblePrompt builds the chat message list within the input token
// budget. When the budget is exceeded, retrieved chunks are dropped
// first from the least relevant end, then the oldest conversation
// turns. The user message itself is never dropped.
func (s *ChatService) assemblePrompt(
	window []domain.Turn, chunks []domain.ScoredChunk, message string,
) ([]driven.ChatMessage, []string) {
	budget := s.cfg.Prompt.MaxInputTokens

	for {
		messages := s.buildMessages(window, chunks, message)
		if budget <= 0 || s.countTokens(messages) <= budget {
			ids := make([]string, len(chunks))
			for i, c := range chunks {
				ids[i] = c.Chunk.ID
			}
			return messages, ids
		}

		switch {
		case len(chunks) > 0:
			dropped := chunks[len(chunks)-1]
			chunks = chunks[:len(chunks)-1]
			logger.Debug("Prompt over budget, dropping chunk %s", dropped.Chunk.ID)
		case len(window) > 0:
			window = window[1:]
			logger.Debug("Prompt over budget, dropping oldest turn")
		default:
			// Nothing left to trim. Send the minimal prompt as is.
			ids := []string{}
			return messages, ids
		}
	}
}

// buildMessages renders the system prompt, the window and the user
// message into the LLM chat format.
func (s *ChatService) buildMessages(
	window []domain.Turn, chunks []domain.ScoredChunk, message string,
) []driven.ChatMessage {
	contextBlock := noContextNote
	if len(chunks) > 0 {
		passages := make([]string, len(chunks))
		for i, c := range chunks {
			passages[i] = fmt.Sprintf("[%d] %s", i+1, c.Chunk.Content)
		}
		contextBlock = strings.Join(passages, "\n\n")
	}

	messages := make([]driven.ChatMessage, 0, len(window)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    driven.ChatRoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, s.cfg.CompanyName, s.cfg.CompanyName, contextBlock),
	})
	for _, turn := range window {
		role := driven.ChatRoleUser
		if turn.Role == domain.RoleAssistant {
			role = driven.ChatRoleAssistant
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.ChatRoleUser, Content: message})

	return messages
}

// countTokens estimates the token footprint of the message list.
func (s *ChatService) countTokens(messages []driven.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += s.counter.Count(m.Content)
	}
	return total
}
