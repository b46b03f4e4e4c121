package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

func TestNewRecursive_Defaults(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{})
	assert.Equal(t, DefaultChunkSize, r.size)
	assert.Equal(t, DefaultChunkOverlap, r.overlap)
	assert.Equal(t, DefaultSeparators, r.separators)
}

func TestNewRecursive_OverlapExceedsSize(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 100, Overlap: 150})
	assert.Equal(t, 25, r.overlap)
}

func TestRecursive_EmptyContent(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{})
	chunks, err := r.Chunk(context.Background(), &domain.Document{ID: "doc", Content: ""})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRecursive_SmallContent(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 100, Overlap: 20})
	doc := &domain.Document{ID: "doc", Content: "This is a small piece of content."}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Content)
	assert.Equal(t, "doc", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Sequence)
	assert.Equal(t, domain.CharSpan{Start: 0, End: len(doc.Content)}, chunks[0].Span)
}

func TestRecursive_FixedWindows(t *testing.T) {
	// 3000 chars with no separators falls through to the character-level
	// fallback: step 800 pieces merged into overlapping spans of 1000.
	r := NewRecursive(domain.ChunkingSettings{Size: 1000, Overlap: 200})
	doc := &domain.Document{ID: "doc", Content: strings.Repeat("x", 3000)}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	want := []domain.CharSpan{
		{Start: 0, End: 800},
		{Start: 600, End: 1600},
		{Start: 1400, End: 2400},
		{Start: 2200, End: 3000},
	}
	for i, chunk := range chunks {
		assert.Equal(t, want[i], chunk.Span, "chunk %d span", i)
		assert.Equal(t, i, chunk.Sequence)
		assert.Equal(t, doc.Content[chunk.Span.Start:chunk.Span.End], chunk.Content)
		assert.LessOrEqual(t, chunk.Span.Len(), 1000)
	}
}

func TestRecursive_ParagraphBoundaries(t *testing.T) {
	para1 := strings.Repeat("a", 400)
	para2 := strings.Repeat("b", 400)
	para3 := strings.Repeat("c", 400)
	doc := &domain.Document{ID: "doc", Content: para1 + "\n\n" + para2 + "\n\n" + para3}

	r := NewRecursive(domain.ChunkingSettings{Size: 1000, Overlap: 100})
	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// The first chunk holds the first two paragraphs; the second starts
	// inside the first chunk's tail by the overlap width.
	assert.Contains(t, chunks[0].Content, para1)
	assert.Contains(t, chunks[0].Content, para2)
	assert.Contains(t, chunks[1].Content, para3)
	assert.Equal(t, chunks[0].Span.End-100, chunks[1].Span.Start)
}

func TestRecursive_OverlapIsSharedText(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 200, Overlap: 50})
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20),
	}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		assert.Less(t, cur.Span.Start, prev.Span.End, "chunk %d should overlap its predecessor", i)
		shared := doc.Content[cur.Span.Start:prev.Span.End]
		assert.True(t, strings.HasSuffix(prev.Content, shared))
		assert.True(t, strings.HasPrefix(cur.Content, shared))
	}
}

func TestRecursive_SpansCoverDocument(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 300, Overlap: 60})
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("Sentence one goes here. Sentence two follows it.\n\n", 30),
	}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 0, chunks[0].Span.Start)
	assert.Equal(t, len(doc.Content), chunks[len(chunks)-1].Span.End)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].Span.Start, chunks[i-1].Span.End, "no gap between chunks")
	}
}

func TestRecursive_Deterministic(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 250, Overlap: 50})
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("Some prose with words, commas, and periods. More text follows.\n", 25),
	}

	first, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	second, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Span, second[i].Span)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestRecursive_UnsplittableToken(t *testing.T) {
	// With no applicable separator the oversized run becomes a single
	// chunk rather than looping or failing.
	r := NewRecursive(domain.ChunkingSettings{
		Size:       100,
		Overlap:    20,
		Separators: []string{"\n\n"},
	})
	doc := &domain.Document{ID: "doc", Content: strings.Repeat("x", 500)}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.CharSpan{Start: 0, End: 500}, chunks[0].Span)
}

func TestRecursive_UniqueChunkIDs(t *testing.T) {
	r := NewRecursive(domain.ChunkingSettings{Size: 100, Overlap: 20})
	doc := &domain.Document{ID: "doc", Content: strings.Repeat("word ", 200)}

	chunks, err := r.Chunk(context.Background(), doc)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, c := range chunks {
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate chunk id")
		seen[c.ID] = true
	}
}
