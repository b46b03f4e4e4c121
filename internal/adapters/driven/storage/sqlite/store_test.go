package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_RunsMigrations(t *testing.T) {
	store := newTestStore(t)

	// Re-opening the same directory must be idempotent.
	again, err := NewStore(store.Path()[:len(store.Path())-len("/groundwork.db")])
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestDocumentStore_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := domain.Document{
		ID:          "d1",
		SourcePath:  "corpus/handbook.md",
		Content:     "full handbook text",
		ContentHash: "abc123",
		Metadata:    map[string]any{"title": "Handbook", "format": "markdown"},
		IngestedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, "Handbook", got.Metadata["title"])
	assert.True(t, doc.IngestedAt.Equal(got.IngestedAt))

	bySource, err := docs.GetDocumentBySourcePath(ctx, "corpus/handbook.md")
	require.NoError(t, err)
	assert.Equal(t, "d1", bySource.ID)

	_, err = docs.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UpdateKeepsSingleRow(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := domain.Document{ID: "d1", SourcePath: "corpus/a.txt", Content: "v1", ContentHash: "h1", IngestedAt: time.Now().UTC()}
	require.NoError(t, docs.SaveDocument(ctx, doc))
	doc.Content = "v2"
	doc.ContentHash = "h2"
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_GetChunksUnknownDocument(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	_, err := docs.GetChunks(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A stored document without chunks is not an error.
	doc := domain.Document{ID: "d1", Content: "text", ContentHash: "h", IngestedAt: time.Now().UTC()}
	require.NoError(t, docs.SaveDocument(ctx, doc))
	chunks, err := docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ChunksRoundtrip(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := domain.Document{ID: "d1", Content: "text", ContentHash: "h", IngestedAt: time.Now().UTC()}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	chunks := []domain.Chunk{
		{ID: "c0", DocumentID: "d1", Sequence: 0, Content: "first part", Span: domain.CharSpan{Start: 0, End: 10}, Embedding: []float32{0.5, -1.25, 3}},
		{ID: "c1", DocumentID: "d1", Sequence: 1, Content: "second part", Span: domain.CharSpan{Start: 8, End: 19}, Embedding: []float32{1, 2, 3}},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c0", got[0].ID)
	assert.Equal(t, "c1", got[1].ID)
	assert.Equal(t, domain.CharSpan{Start: 0, End: 10}, got[0].Span)
	assert.Equal(t, []float32{0.5, -1.25, 3}, got[0].Embedding, "embeddings survive the blob roundtrip")

	chunk, err := docs.GetChunk(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "second part", chunk.Content)

	_, err = docs.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunksReplaces(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := domain.Document{ID: "d1", Content: "text", ContentHash: "h", IngestedAt: time.Now().UTC()}
	require.NoError(t, docs.SaveDocument(ctx, doc))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "old", DocumentID: "d1", Sequence: 0, Content: "old"},
	}))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "new", DocumentID: "d1", Sequence: 0, Content: "new"},
	}))

	got, err := docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestDocumentStore_DeleteCascadesToChunks(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := domain.Document{ID: "d1", Content: "text", ContentHash: "h", IngestedAt: time.Now().UTC()}
	require.NoError(t, docs.SaveDocument(ctx, doc))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c0", DocumentID: "d1", Sequence: 0, Content: "part"},
	}))

	require.NoError(t, docs.DeleteDocument(ctx, "d1"))

	_, err := docs.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = docs.GetChunk(ctx, "c0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStore_WindowAndEviction(t *testing.T) {
	store := newTestStore(t)
	conv := store.ConversationStore(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		err := conv.AppendTurns(ctx, "conv", domain.Turn{
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf("turn %d", i),
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	window, err := conv.Window(ctx, "conv", 10)
	require.NoError(t, err)
	require.Len(t, window, 3, "older turns are evicted at capacity")
	assert.Equal(t, "turn 3", window[0].Content)
	assert.Equal(t, "turn 5", window[2].Content)

	window, err = conv.Window(ctx, "conv", 2)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "turn 4", window[0].Content)
	assert.Equal(t, domain.RoleUser, window[0].Role)
}

func TestConversationStore_AppendIsAtomic(t *testing.T) {
	store := newTestStore(t)
	conv := store.ConversationStore(10)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, conv.AppendTurns(ctx, "conv",
		domain.Turn{Role: domain.RoleUser, Content: "question", CreatedAt: now},
		domain.Turn{Role: domain.RoleAssistant, Content: "answer", CreatedAt: now},
	))

	window, err := conv.Window(ctx, "conv", 10)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, domain.RoleUser, window[0].Role)
	assert.Equal(t, domain.RoleAssistant, window[1].Role)
}

func TestConversationStore_DeleteAndIsolation(t *testing.T) {
	store := newTestStore(t)
	conv := store.ConversationStore(10)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, conv.AppendTurns(ctx, "one", domain.Turn{Role: domain.RoleUser, Content: "a", CreatedAt: now}))
	require.NoError(t, conv.AppendTurns(ctx, "two", domain.Turn{Role: domain.RoleUser, Content: "b", CreatedAt: now}))

	require.NoError(t, conv.Delete(ctx, "one"))

	window, err := conv.Window(ctx, "one", 10)
	require.NoError(t, err)
	assert.Empty(t, window)

	window, err = conv.Window(ctx, "two", 10)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b", window[0].Content)
}

func TestFloat32BlobRoundtrip(t *testing.T) {
	vec := []float32{0, 1, -1, 0.123456, 3.4e38}
	got := bytesToFloat32Slice(float32SliceToBytes(vec))
	assert.Equal(t, vec, got)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
