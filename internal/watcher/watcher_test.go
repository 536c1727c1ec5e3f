package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
)

type recordingIngester struct {
	mu    sync.Mutex
	files []string
}

var _ driving.IngestService = (*recordingIngester)(nil)

func (r *recordingIngester) IngestDirectory(context.Context, string) (driving.IngestReport, error) {
	return driving.IngestReport{}, nil
}

func (r *recordingIngester) IngestFile(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, path)
	return nil
}

func (r *recordingIngester) ingested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, dir string, ingest *recordingIngester) {
	t.Helper()
	w, err := New(ingest, dir, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register before writing files.
	time.Sleep(100 * time.Millisecond)
}

func TestNew_Validation(t *testing.T) {
	ingest := &recordingIngester{}

	_, err := New(nil, t.TempDir(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = New(ingest, filepath.Join(t.TempDir(), "missing"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	_, err = New(ingest, file, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRun_IngestsNewSupportedFile(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngester{}
	startWatcher(t, dir, ingest)

	path := filepath.Join(dir, "listings.txt")
	require.NoError(t, os.WriteFile(path, []byte("Brickell condo data"), 0600))

	require.True(t, waitFor(t, func() bool { return len(ingest.ingested()) >= 1 }))
	assert.Contains(t, ingest.ingested(), path)
}

func TestRun_IgnoresUnsupportedAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngester{}
	startWatcher(t, dir, ingest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0600))

	// Nothing should arrive; wait past the debounce window to be sure.
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, ingest.ingested())
}

func TestRun_DebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngester{}
	startWatcher(t, dir, ingest)

	path := filepath.Join(dir, "market.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("update"), 0600))
		time.Sleep(5 * time.Millisecond)
	}

	require.True(t, waitFor(t, func() bool { return len(ingest.ingested()) >= 1 }))

	// Let any stray timers fire, then confirm the writes collapsed.
	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, len(ingest.ingested()), 2)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngester{}
	w, err := New(ingest, dir, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
