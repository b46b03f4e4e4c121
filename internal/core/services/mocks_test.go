package services

import (
	"context"
	"sync"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
)

// mockEmbedder embeds texts with a fixed lookup table and records calls.
// Errors can be injected per call index to exercise retry paths.
type mockEmbedder struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	embedCalls int
	batchCalls int
	errs       []error
}

func (m *mockEmbedder) nextErr(call int) error {
	if call <= len(m.errs) {
		return m.errs[call-1]
	}
	return nil
}

func (m *mockEmbedder) lookup(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if err := m.nextErr(m.embedCalls); err != nil {
		return nil, err
	}
	return m.lookup(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if err := m.nextErr(m.batchCalls); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.lookup(text)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM answers every chat with a canned reply and records the last
// message list it received.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.reply, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockRetriever returns a preset retrieval result.
type mockRetriever struct {
	result domain.RetrievalResult
	err    error
}

var _ driving.RetrievalService = (*mockRetriever)(nil)

func (m *mockRetriever) Retrieve(_ context.Context, query string, _ int) (domain.RetrievalResult, error) {
	if m.err != nil {
		return domain.RetrievalResult{}, m.err
	}
	result := m.result
	result.Query = query
	return result, nil
}
