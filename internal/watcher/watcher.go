// Package watcher keeps the vector index in sync with the knowledge
// directory while a chat session is running.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is
// re-ingested. Editors fire several write events per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a knowledge directory and re-ingests documents as
// they are created or modified. Deletions are ignored: the in-memory
// index is rebuilt on the next full ingest anyway.
type Watcher struct {
	ingest   driving.IngestService
	dir      string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for dir. The directory must exist.
func New(ingest driving.IngestService, dir string, debounce time.Duration) (*Watcher, error) {
	if ingest == nil {
		return nil, fmt.Errorf("%w: ingest service is required", domain.ErrInvalidConfig)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: knowledge dir %s: %v", domain.ErrInvalidConfig, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidConfig, dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		ingest:   ingest,
		dir:      dir,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is cancelled. It blocks, so callers run it in
// a goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Debug("Watching %s for document changes", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent schedules a debounced re-ingest for relevant events.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if isHidden(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}
	if _, err := domain.FormatForPath(event.Name); err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if err := w.ingest.IngestFile(ctx, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Warn("Re-ingest %s failed: %v", filepath.Base(path), err)
			return
		}
		logger.Debug("Re-ingested %s", filepath.Base(path))
	})
}

// cancelPending stops all outstanding debounce timers.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// isHidden reports whether the file name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
