package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
	"github.com/praxos-ai/groundwork/internal/vecmath"
)

// Default semantic splitting parameters.
const (
	DefaultSimilarityThreshold = 0.75
	DefaultSemanticMinSize     = 100
	DefaultSemanticMaxSize     = 2000
)

// Ensure Semantic implements the interface.
var _ Chunker = (*Semantic)(nil)

// Semantic merges a growing window of sentences while the cosine similarity
// between the window's centroid embedding and the next sentence stays above
// the threshold. A new chunk begins when similarity drops below the
// threshold or when the size bounds are reached. Output depends only on the
// input text and the embedding model.
type Semantic struct {
	embedder  driven.EmbeddingService
	threshold float64
	minSize   int
	maxSize   int
}

// NewSemantic creates a semantic chunker from the settings, applying
// defaults for zero values.
func NewSemantic(cfg domain.ChunkingSettings, embedder driven.EmbeddingService) *Semantic {
	s := &Semantic{
		embedder:  embedder,
		threshold: cfg.SimilarityThreshold,
		minSize:   cfg.SemanticMinSize,
		maxSize:   cfg.SemanticMaxSize,
	}
	if s.threshold <= 0 {
		s.threshold = DefaultSimilarityThreshold
	}
	if s.minSize <= 0 {
		s.minSize = DefaultSemanticMinSize
	}
	if s.maxSize <= s.minSize {
		s.maxSize = DefaultSemanticMaxSize
	}
	return s
}

// Chunk splits the document content at sentence-level semantic boundaries.
func (s *Semantic) Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	sentences := splitSentences(doc.Content)
	vectors, err := s.embedSentences(ctx, doc.Content, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}

	var spans []domain.CharSpan
	var window [][]float32
	start := -1
	end := 0

	flush := func() {
		if start >= 0 && end > start {
			spans = append(spans, domain.CharSpan{Start: start, End: end})
		}
		start = -1
		window = window[:0]
	}

	for i, sent := range sentences {
		if start < 0 {
			start = sent.start
			end = sent.end
			if vectors[i] != nil {
				window = append(window, vectors[i])
			}
			continue
		}

		length := end - start
		sentLen := sent.end - sent.start

		// Bounds take precedence over similarity: never exceed the
		// maximum, never cut before the minimum.
		switch {
		case length+sentLen > s.maxSize:
			flush()
		case length >= s.minSize && s.boundary(window, vectors[i]):
			flush()
		}

		if start < 0 {
			start = sent.start
		}
		end = sent.end
		if vectors[i] != nil {
			window = append(window, vectors[i])
		}
	}
	flush()

	chunks := make([]domain.Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Sequence:   i,
			Content:    doc.Content[span.Start:span.End],
			Span:       span,
		})
	}
	return chunks, nil
}

// boundary reports whether the next sentence should start a new chunk.
// Sentences without an embedding (pure whitespace) never open a boundary.
func (s *Semantic) boundary(window [][]float32, next []float32) bool {
	if next == nil || len(window) == 0 {
		return false
	}
	centroid := vecmath.Centroid(window)
	return vecmath.Cosine(centroid, next) < s.threshold
}

// embedSentences returns one embedding per sentence, nil for sentences that
// are pure whitespace. Embeddings are fetched in a single batch call.
func (s *Semantic) embedSentences(ctx context.Context, content string, sentences []piece) ([][]float32, error) {
	texts := make([]string, 0, len(sentences))
	indexes := make([]int, 0, len(sentences))
	for i, sent := range sentences {
		text := strings.TrimSpace(content[sent.start:sent.end])
		if text == "" {
			continue
		}
		texts = append(texts, text)
		indexes = append(indexes, i)
	}

	vectors := make([][]float32, len(sentences))
	if len(texts) == 0 {
		return vectors, nil
	}

	embedded, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embedded), len(texts))
	}
	for i, idx := range indexes {
		vectors[idx] = embedded[i]
	}
	return vectors, nil
}

// splitSentences divides text into contiguous sentence spans, breaking after
// sentence-ending punctuation followed by a space, and after newlines.
func splitSentences(text string) []piece {
	var out []piece
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\n':
			out = append(out, piece{start, i + 1})
			start = i + 1
		case (c == '.' || c == '!' || c == '?') && i+1 < len(text) && text[i+1] == ' ':
			out = append(out, piece{start, i + 2})
			start = i + 2
			i++
		}
	}
	if start < len(text) {
		out = append(out, piece{start, len(text)})
	}
	return out
}
