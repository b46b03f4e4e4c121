package domain

import (
	"fmt"
	"time"
)

// ChunkStrategy selects how documents are split into chunks.
type ChunkStrategy string

// Available chunking strategies. The strategies are mutually exclusive;
// exactly one is active per pipeline.
const (
	// ChunkStrategyRecursive splits on an ordered separator hierarchy
	// with a fixed overlap. Deterministic.
	ChunkStrategyRecursive ChunkStrategy = "recursive"

	// ChunkStrategySemantic merges sentences while their embedding
	// similarity to the growing chunk stays above a threshold.
	ChunkStrategySemantic ChunkStrategy = "semantic"
)

// IsValid returns true if the strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	return s == ChunkStrategyRecursive || s == ChunkStrategySemantic
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// ChunkingSettings configures document splitting.
type ChunkingSettings struct {
	// Strategy selects recursive or semantic splitting.
	Strategy ChunkStrategy `toml:"strategy"`

	// Size is the maximum chunk size in characters.
	Size int `toml:"size"`

	// Overlap is the trailing overlap carried between adjacent chunks,
	// in characters. Must be smaller than Size.
	Overlap int `toml:"overlap"`

	// Separators is the ordered coarse-to-fine separator hierarchy for
	// the recursive strategy.
	Separators []string `toml:"separators"`

	// SimilarityThreshold is the minimum cosine similarity for the
	// semantic strategy to keep extending a chunk.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// SemanticMinSize is the minimum chunk size for the semantic strategy.
	SemanticMinSize int `toml:"semantic_min_size"`

	// SemanticMaxSize is the maximum chunk size for the semantic strategy.
	SemanticMaxSize int `toml:"semantic_max_size"`
}

// RetrievalSettings configures candidate fetching and re-ranking.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int `toml:"top_k"`

	// FetchK is the number of candidates fetched from the vector index
	// before re-ranking. Must be >= TopK.
	FetchK int `toml:"fetch_k"`

	// Lambda is the MMR relevance/diversity trade-off in [0,1].
	// 1 keeps the raw relevance ordering; 0 maximises diversity.
	Lambda float64 `toml:"lambda"`
}

// MemorySettings configures conversational memory.
type MemorySettings struct {
	// WindowSize is the maximum number of turns retained per conversation.
	WindowSize int `toml:"window_size"`
}

// CacheSettings configures the embedding cache.
type CacheSettings struct {
	// Capacity is the maximum number of cached embeddings.
	Capacity int `toml:"capacity"`
}

// RetrySettings bounds retries of transient provider failures.
type RetrySettings struct {
	// MaxAttempts is the number of retries after the initial call.
	MaxAttempts int `toml:"max_attempts"`

	// BaseDelay is the initial backoff delay; delays grow exponentially.
	BaseDelay time.Duration `toml:"base_delay"`
}

// ProviderSettings configures external AI backends.
type ProviderSettings struct {
	// Embedding selects the embedding backend.
	Embedding AIProvider `toml:"embedding"`

	// LLM selects the chat completion backend.
	LLM AIProvider `toml:"llm"`

	// EmbeddingModel overrides the backend's default embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// LLMModel overrides the backend's default chat model.
	LLMModel string `toml:"llm_model"`

	// CallTimeout bounds every individual provider call.
	CallTimeout time.Duration `toml:"call_timeout"`

	// EmbeddingRPS caps embedding provider calls per second.
	// Zero disables the limiter.
	EmbeddingRPS float64 `toml:"embedding_rps"`

	// Retry bounds retries of transient failures.
	Retry RetrySettings `toml:"retry"`
}

// PromptSettings configures prompt assembly and generation.
type PromptSettings struct {
	// MaxInputTokens is the prompt budget. Retrieved context is truncated
	// first, then the oldest conversation turns.
	MaxInputTokens int `toml:"max_input_tokens"`

	// MaxAnswerTokens caps the generated answer length.
	MaxAnswerTokens int `toml:"max_answer_tokens"`

	// Temperature controls generation randomness.
	Temperature float64 `toml:"temperature"`
}

// VectorSettings configures the vector index backend.
type VectorSettings struct {
	// Backend selects the index implementation ("memory" or "qdrant").
	Backend string `toml:"backend"`

	// QdrantURL is the Qdrant base URL.
	QdrantURL string `toml:"qdrant_url"`

	// Collection is the Qdrant collection name.
	Collection string `toml:"collection"`
}

// Settings is the full pipeline configuration.
type Settings struct {
	// CompanyName brands the system prompt.
	CompanyName string `toml:"company_name"`

	// MaxDocumentBytes rejects oversized raw documents before any
	// external call.
	MaxDocumentBytes int `toml:"max_document_bytes"`

	// CorpusPath is the directory of raw documents for bulk ingestion
	// and watching.
	CorpusPath string `toml:"corpus_path"`

	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Memory    MemorySettings    `toml:"memory"`
	Cache     CacheSettings     `toml:"cache"`
	Providers ProviderSettings  `toml:"providers"`
	Prompt    PromptSettings    `toml:"prompt"`
	Vector    VectorSettings    `toml:"vector"`
}

// DefaultSettings returns the default pipeline configuration.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:      "Groundwork",
		MaxDocumentBytes: 50 * 1024 * 1024,
		Chunking: ChunkingSettings{
			Strategy:            ChunkStrategyRecursive,
			Size:                1000,
			Overlap:             200,
			Separators:          []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " ", ""},
			SimilarityThreshold: 0.75,
			SemanticMinSize:     100,
			SemanticMaxSize:     2000,
		},
		Retrieval: RetrievalSettings{
			TopK:   5,
			FetchK: 20,
			Lambda: 0.7,
		},
		Memory: MemorySettings{WindowSize: 10},
		Cache:  CacheSettings{Capacity: 1000},
		Providers: ProviderSettings{
			Embedding:   AIProviderOpenAI,
			LLM:         AIProviderOpenAI,
			CallTimeout: 60 * time.Second,
			Retry: RetrySettings{
				MaxAttempts: 2,
				BaseDelay:   500 * time.Millisecond,
			},
		},
		Prompt: PromptSettings{
			MaxInputTokens:  6000,
			MaxAnswerTokens: 500,
			Temperature:     0.7,
		},
		Vector: VectorSettings{
			Backend:    "memory",
			Collection: "company_docs",
		},
	}
}

// Validate checks the settings for internal consistency.
func (s *Settings) Validate() error {
	if !s.Chunking.Strategy.IsValid() {
		return fmt.Errorf("chunking strategy %q: %w", s.Chunking.Strategy, ErrInvalidInput)
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size must be positive: %w", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("chunk overlap must be in [0, size): %w", ErrInvalidInput)
	}
	if s.Chunking.SemanticMinSize > s.Chunking.SemanticMaxSize {
		return fmt.Errorf("semantic min size exceeds max size: %w", ErrInvalidInput)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive: %w", ErrInvalidInput)
	}
	if s.Retrieval.FetchK < s.Retrieval.TopK {
		return fmt.Errorf("fetch_k must be >= top_k: %w", ErrInvalidInput)
	}
	if s.Retrieval.Lambda < 0 || s.Retrieval.Lambda > 1 {
		return fmt.Errorf("lambda must be in [0,1]: %w", ErrInvalidInput)
	}
	if s.Memory.WindowSize <= 0 {
		return fmt.Errorf("memory window size must be positive: %w", ErrInvalidInput)
	}
	if s.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive: %w", ErrInvalidInput)
	}
	return nil
}
