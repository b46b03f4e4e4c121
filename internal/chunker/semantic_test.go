package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

// stubEmbedder returns a fixed vector per text, falling back to a default.
type stubEmbedder struct {
	vectors    map[string][]float32
	fallback   []float32
	batchCalls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return 2 }
func (s *stubEmbedder) ModelName() string            { return "stub" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

func TestNewSemantic_Defaults(t *testing.T) {
	s := NewSemantic(domain.ChunkingSettings{}, &stubEmbedder{})
	assert.Equal(t, DefaultSimilarityThreshold, s.threshold)
	assert.Equal(t, DefaultSemanticMinSize, s.minSize)
	assert.Equal(t, DefaultSemanticMaxSize, s.maxSize)
}

func TestSemantic_EmptyContent(t *testing.T) {
	s := NewSemantic(domain.ChunkingSettings{}, &stubEmbedder{})
	chunks, err := s.Chunk(context.Background(), &domain.Document{ID: "doc"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSemantic_SplitsAtTopicShift(t *testing.T) {
	embedder := &stubEmbedder{
		vectors: map[string][]float32{
			"Cats purr.":   {1, 0},
			"Dogs bark.":   {1, 0},
			"Stocks fell.": {0, 1},
			"Bonds rose.":  {0, 1},
		},
	}
	s := NewSemantic(domain.ChunkingSettings{
		SimilarityThreshold: 0.75,
		SemanticMinSize:     5,
		SemanticMaxSize:     500,
	}, embedder)

	doc := &domain.Document{ID: "doc", Content: "Cats purr. Dogs bark. Stocks fell. Bonds rose."}
	chunks, err := s.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Cats purr. Dogs bark.", strings.TrimSpace(chunks[0].Content))
	assert.Equal(t, "Stocks fell. Bonds rose.", strings.TrimSpace(chunks[1].Content))
	assert.Equal(t, 0, chunks[0].Sequence)
	assert.Equal(t, 1, chunks[1].Sequence)
	assert.Equal(t, 1, embedder.batchCalls, "sentences embedded in one batch")

	// Spans reconstruct the original content.
	assert.Equal(t, doc.Content[chunks[0].Span.Start:chunks[0].Span.End], chunks[0].Content)
	assert.Equal(t, doc.Content[chunks[1].Span.Start:chunks[1].Span.End], chunks[1].Content)
	assert.Equal(t, len(doc.Content), chunks[1].Span.End)
}

func TestSemantic_SimilarContentStaysTogether(t *testing.T) {
	embedder := &stubEmbedder{fallback: []float32{1, 0}}
	s := NewSemantic(domain.ChunkingSettings{
		SimilarityThreshold: 0.75,
		SemanticMinSize:     5,
		SemanticMaxSize:     500,
	}, embedder)

	doc := &domain.Document{ID: "doc", Content: "One topic here. Same topic still. Same topic again."}
	chunks, err := s.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Content)
}

func TestSemantic_MaxSizeBoundsChunks(t *testing.T) {
	// Every sentence is similar, so only the size bound forces splits.
	embedder := &stubEmbedder{fallback: []float32{1, 0}}
	s := NewSemantic(domain.ChunkingSettings{
		SimilarityThreshold: 0.75,
		SemanticMinSize:     10,
		SemanticMaxSize:     120,
	}, embedder)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "This sentence number %d fills some space. ", i)
	}
	doc := &domain.Document{ID: "doc", Content: b.String()}

	chunks, err := s.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, c.Span.Len(), 120, "chunk %d exceeds max size", i)
	}
}

func TestSemantic_MinSizeSuppressesEarlySplit(t *testing.T) {
	// The second sentence is dissimilar, but the chunk is still under
	// the minimum size so no boundary opens.
	embedder := &stubEmbedder{
		vectors: map[string][]float32{
			"Hi.":                    {1, 0},
			"Unrelated matter here.": {0, 1},
		},
	}
	s := NewSemantic(domain.ChunkingSettings{
		SimilarityThreshold: 0.75,
		SemanticMinSize:     50,
		SemanticMaxSize:     500,
	}, embedder)

	doc := &domain.Document{ID: "doc", Content: "Hi. Unrelated matter here."}
	chunks, err := s.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "periods",
			text: "One. Two. Three.",
			want: []string{"One. ", "Two. ", "Three."},
		},
		{
			name: "mixed punctuation",
			text: "Really? Yes! Fine.",
			want: []string{"Really? ", "Yes! ", "Fine."},
		},
		{
			name: "newlines",
			text: "line one\nline two",
			want: []string{"line one\n", "line two"},
		},
		{
			name: "single sentence",
			text: "no terminator here",
			want: []string{"no terminator here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := splitSentences(tt.text)
			require.Len(t, spans, len(tt.want))
			for i, span := range spans {
				assert.Equal(t, tt.want[i], tt.text[span.start:span.end])
			}
		})
	}
}
