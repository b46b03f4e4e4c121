// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/praxos-ai/groundwork/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/praxos-ai/groundwork/internal/adapters/driven/embedding/openai"
	"github.com/praxos-ai/groundwork/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/praxos-ai/groundwork/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/praxos-ai/groundwork/internal/adapters/driven/llm/ollama"
	openaillm "github.com/praxos-ai/groundwork/internal/adapters/driven/llm/openai"
	memoryindex "github.com/praxos-ai/groundwork/internal/adapters/driven/vector/memory"
	"github.com/praxos-ai/groundwork/internal/adapters/driven/vector/qdrant"
	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/embedcache"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by the
// settings, wrapped in the rate limiter and cache when configured.
func CreateEmbeddingService(settings domain.Settings) (driven.EmbeddingService, error) {
	var svc driven.EmbeddingService

	switch settings.Providers.Embedding {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: os.Getenv("OLLAMA_BASE_URL"),
			Model:   settings.Providers.EmbeddingModel,
			Timeout: settings.Providers.CallTimeout,
		})

	case domain.AIProviderOpenAI:
		created, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   settings.Providers.EmbeddingModel,
			Timeout: settings.Providers.CallTimeout,
		})
		if err != nil {
			return nil, err
		}
		svc = created

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Providers.Embedding)
	}

	if settings.Providers.EmbeddingRPS > 0 {
		svc = ratelimit.Wrap(svc, settings.Providers.EmbeddingRPS)
	}

	return embedcache.New(svc, settings.Cache.Capacity)
}

// CreateLLMService creates the LLM service selected by the settings.
func CreateLLMService(settings domain.Settings) (driven.LLMService, error) {
	switch settings.Providers.LLM {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: os.Getenv("OLLAMA_BASE_URL"),
			Model:   settings.Providers.LLMModel,
			Timeout: settings.Providers.CallTimeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   settings.Providers.LLMModel,
			Timeout: settings.Providers.CallTimeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   settings.Providers.LLMModel,
			Timeout: settings.Providers.CallTimeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Providers.LLM)
	}
}

// CreateVectorIndex creates the vector index selected by the settings.
// The dimension must match the embedding service in use.
func CreateVectorIndex(ctx context.Context, settings domain.Settings, dimension int) (driven.VectorIndex, error) {
	switch settings.Vector.Backend {
	case "", "memory":
		return memoryindex.NewIndex(), nil

	case "qdrant":
		return qdrant.NewIndex(ctx, qdrant.Config{
			BaseURL:    settings.Vector.QdrantURL,
			Collection: settings.Vector.Collection,
			Dimension:  dimension,
			APIKey:     os.Getenv("QDRANT_API_KEY"),
		})

	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", settings.Vector.Backend)
	}
}

// ValidateEmbeddingService checks connectivity of an embedding service.
func ValidateEmbeddingService(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMService checks connectivity of an LLM service.
func ValidateLLMService(svc driven.LLMService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
