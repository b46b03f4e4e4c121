package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
)

// recordingIngest records ingest and remove calls and signals each
// IngestPath on a channel so tests can wait without sleeping.
type recordingIngest struct {
	mu       sync.Mutex
	ingested []string
	removed  []string
	docs     []domain.Document
	signal   chan string
}

var _ driving.IngestService = (*recordingIngest)(nil)

func newRecordingIngest() *recordingIngest {
	return &recordingIngest{signal: make(chan string, 16)}
}

func (r *recordingIngest) Ingest(_ context.Context, doc driving.NewDocument) (string, error) {
	return doc.SourcePath, nil
}

func (r *recordingIngest) IngestPath(_ context.Context, path string) ([]string, error) {
	r.mu.Lock()
	r.ingested = append(r.ingested, path)
	r.mu.Unlock()
	r.signal <- path
	return []string{path}, nil
}

func (r *recordingIngest) Remove(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, documentID)
	return nil
}

func (r *recordingIngest) List(_ context.Context) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs, nil
}

func (r *recordingIngest) ingestCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ingested)
}

func waitForIngest(t *testing.T, ingest *recordingIngest) string {
	t.Helper()
	select {
	case path := <-ingest.signal:
		return path
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ingestion")
		return ""
	}
}

func TestNew_DefaultDebounce(t *testing.T) {
	w := New(newRecordingIngest(), "corpus", 0)
	assert.Equal(t, DefaultDebounce, w.debounce)

	w = New(newRecordingIngest(), "corpus", time.Second)
	assert.Equal(t, time.Second, w.debounce)
}

func TestRun_RejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w := New(newRecordingIngest(), file, time.Millisecond)
	assert.Error(t, w.Run(context.Background()))

	w = New(newRecordingIngest(), filepath.Join(dir, "missing"), time.Millisecond)
	assert.Error(t, w.Run(context.Background()))
}

func TestRun_IngestsCorpusOnStart(t *testing.T) {
	dir := t.TempDir()
	ingest := newRecordingIngest()
	w := New(ingest, dir, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{dir}, ingest.ingested, "the corpus is ingested before watching begins")
}

func TestScheduleIngest_Debounces(t *testing.T) {
	ingest := newRecordingIngest()
	w := New(ingest, "corpus", 50*time.Millisecond)
	ctx := context.Background()

	// A burst of events for one path collapses to a single ingestion.
	w.scheduleIngest(ctx, "corpus/a.txt")
	w.scheduleIngest(ctx, "corpus/a.txt")
	w.scheduleIngest(ctx, "corpus/a.txt")

	path := waitForIngest(t, ingest)
	assert.Equal(t, "corpus/a.txt", path)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, ingest.ingestCount())
}

func TestScheduleIngest_SeparatePathsSeparateTimers(t *testing.T) {
	ingest := newRecordingIngest()
	w := New(ingest, "corpus", time.Millisecond)
	ctx := context.Background()

	w.scheduleIngest(ctx, "corpus/a.txt")
	w.scheduleIngest(ctx, "corpus/b.txt")

	got := map[string]bool{
		waitForIngest(t, ingest): true,
		waitForIngest(t, ingest): true,
	}
	assert.True(t, got["corpus/a.txt"])
	assert.True(t, got["corpus/b.txt"])
}

func TestHandleEvent_IgnoresUnsupportedFiles(t *testing.T) {
	ingest := newRecordingIngest()
	w := New(ingest, "corpus", time.Millisecond)
	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	w.handleEvent(context.Background(), fsw, fsnotify.Event{
		Name: "corpus/image.png",
		Op:   fsnotify.Write,
	})

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, ingest.ingestCount())
}

func TestHandleEvent_WriteSchedulesIngest(t *testing.T) {
	ingest := newRecordingIngest()
	w := New(ingest, "corpus", time.Millisecond)
	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	w.handleEvent(context.Background(), fsw, fsnotify.Event{
		Name: "corpus/note.md",
		Op:   fsnotify.Write,
	})

	assert.Equal(t, "corpus/note.md", waitForIngest(t, ingest))

	w.handleEvent(context.Background(), fsw, fsnotify.Event{
		Name: "corpus/report.docx",
		Op:   fsnotify.Write,
	})

	assert.Equal(t, "corpus/report.docx", waitForIngest(t, ingest))
}

func TestHandleEvent_RemoveDropsDocument(t *testing.T) {
	ingest := newRecordingIngest()
	ingest.docs = []domain.Document{
		{ID: "doc-1", SourcePath: "corpus/gone.txt"},
		{ID: "doc-2", SourcePath: "corpus/stays.txt"},
	}
	w := New(ingest, "corpus", time.Millisecond)
	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	w.handleEvent(context.Background(), fsw, fsnotify.Event{
		Name: "corpus/gone.txt",
		Op:   fsnotify.Remove,
	})

	assert.Equal(t, []string{"doc-1"}, ingest.removed)
}

func TestRemoveDocument_UnknownPathIsANoOp(t *testing.T) {
	ingest := newRecordingIngest()
	w := New(ingest, "corpus", time.Millisecond)

	w.removeDocument(context.Background(), "corpus/never-ingested.txt")
	assert.Empty(t, ingest.removed)
}
