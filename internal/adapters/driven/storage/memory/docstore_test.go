package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

func testDoc(id, sourcePath string) domain.Document {
	return domain.Document{
		ID:          id,
		SourcePath:  sourcePath,
		Content:     "content of " + id,
		ContentHash: "hash-" + id,
		IngestedAt:  time.Now().UTC(),
	}
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := testDoc("d1", "corpus/a.txt")
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.ContentHash, got.ContentHash)

	bySource, err := store.GetDocumentBySourcePath(ctx, "corpus/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "d1", bySource.ID)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetDocumentBySourcePath(ctx, "corpus/nope.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetChunk(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SourcePathMoves(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "corpus/old.txt")))
	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "corpus/new.txt")))

	_, err := store.GetDocumentBySourcePath(ctx, "corpus/old.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.GetDocumentBySourcePath(ctx, "corpus/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
}

func TestDocumentStore_GetChunksUnknownDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.GetChunks(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A stored document without chunks is not an error.
	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "")))
	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_ChunksSortedBySequence(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "")))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "d1", Sequence: 2, Content: "third"},
		{ID: "c0", DocumentID: "d1", Sequence: 0, Content: "first"},
		{ID: "c1", DocumentID: "d1", Sequence: 1, Content: "second"},
	}))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"c0", "c1", "c2"}, []string{chunks[0].ID, chunks[1].ID, chunks[2].ID})

	chunk, err := store.GetChunk(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)
}

func TestDocumentStore_SaveChunksReplaces(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "")))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "old-1", DocumentID: "d1", Sequence: 0},
		{ID: "old-2", DocumentID: "d1", Sequence: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "new-1", DocumentID: "d1", Sequence: 0},
	}))

	chunks, err := store.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new-1", chunks[0].ID)

	_, err = store.GetChunk(ctx, "old-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteCascades(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDoc("d1", "corpus/a.txt")))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "d1", Sequence: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "d1"))

	_, err := store.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetDocumentBySourcePath(ctx, "corpus/a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	older := testDoc("b", "corpus/b.txt")
	older.IngestedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testDoc("a", "corpus/a.txt")
	newer.IngestedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveDocument(ctx, newer))
	require.NoError(t, store.SaveDocument(ctx, older))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID, "oldest ingestion first")
	assert.Equal(t, "a", docs[1].ID)
}
