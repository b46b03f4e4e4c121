// Package watcher keeps the index in sync with a corpus directory.
// Created and modified files are re-ingested, removed files are dropped
// from the index.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
	"github.com/praxos-ai/groundwork/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last write
// event on a path before re-ingesting it. Editors often produce bursts
// of writes for a single save.
const DefaultDebounce = 500 * time.Millisecond

// supportedExtensions are the file types picked up from the corpus.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".docx": true,
}

// Watcher watches a corpus directory and keeps the index current.
type Watcher struct {
	ingest   driving.IngestService
	root     string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over the given directory.
func New(ingest driving.IngestService, root string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingest:   ingest,
		root:     root,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Run ingests the corpus once, then blocks watching for changes until
// the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("stat corpus %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus path %s is not a directory", w.root)
	}

	if _, err := w.ingest.IngestPath(ctx, w.root); err != nil {
		return fmt.Errorf("initial corpus ingestion: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.root); err != nil {
		return err
	}

	logger.Info("Watching corpus: %s", w.root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// addRecursive registers the directory and all subdirectories.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// handleEvent dispatches one filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name

	// New subdirectories must be watched for the files inside them.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, path); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", path, err)
			}
			return
		}
	}

	if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		w.scheduleIngest(ctx, path)

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.removeDocument(ctx, path)
	}
}

// scheduleIngest re-ingests a path after the debounce interval, resetting
// the timer on every further event for the same path.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if _, err := w.ingest.IngestPath(ctx, path); err != nil {
			if errors.Is(err, domain.ErrEmptyDocument) {
				return
			}
			logger.Warn("Re-ingestion of %s failed: %v", path, err)
			return
		}
		logger.Info("Re-ingested %s", path)
	})
}

// removeDocument drops the document ingested from a path, if any.
func (w *Watcher) removeDocument(ctx context.Context, path string) {
	docs, err := w.ingest.List(ctx)
	if err != nil {
		logger.Warn("Failed to list documents: %v", err)
		return
	}
	for _, doc := range docs {
		if doc.SourcePath != path {
			continue
		}
		if err := w.ingest.Remove(ctx, doc.ID); err != nil {
			logger.Warn("Failed to remove %s: %v", path, err)
			return
		}
		logger.Info("Removed %s from index", path)
		return
	}
}
