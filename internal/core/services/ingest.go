package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// defaultIngestWorkers bounds concurrent document processing.
// Embedding dominates ingestion cost, so parallelism is per document.
const defaultIngestWorkers = 4

// chunkSplitter is the slice of the chunker the service needs.
type chunkSplitter interface {
	Split(doc domain.Document) ([]domain.Chunk, error)
}

// normaliserRegistry selects a normaliser for a path.
type normaliserRegistry interface {
	ForPath(path string) (driven.Normaliser, error)
}

// IngestService builds the vector index from documents on disk.
type IngestService struct {
	registry normaliserRegistry
	splitter chunkSplitter
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	workers  int
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry normaliserRegistry,
	splitter chunkSplitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestService {
	return &IngestService{
		registry: registry,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		workers:  defaultIngestWorkers,
	}
}

// SetWorkers overrides the ingestion worker count.
func (s *IngestService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// IngestDirectory walks dir and ingests every supported document.
// Documents are processed concurrently; a malformed document is
// skipped with a warning and listed in the report, never fatal to the
// batch. A dimension mismatch aborts the batch: it means the index was
// built with a different embedder and continuing would only repeat the
// failure per document.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (driving.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Info("scanning %s", dir)

	paths, err := s.collectPaths(dir)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("scan %s: %w", dir, err)
	}
	logger.Info("found %d supported documents", len(paths))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		report   driving.IngestReport
		fatalErr error
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				chunks, err := s.ingestOne(ctx, path)

				mu.Lock()
				switch {
				case err == nil:
					report.DocumentsIndexed++
					report.ChunksIndexed += chunks
				case errors.Is(err, domain.ErrDimensionMismatch) || errors.Is(err, context.Canceled):
					if fatalErr == nil {
						fatalErr = err
					}
					cancel()
				default:
					logger.Warn("skipping %s: %v", path, err)
					report.Skipped = append(report.Skipped, path)
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	if fatalErr != nil {
		return report, fatalErr
	}
	sort.Strings(report.Skipped)
	logger.Info("ingested %d documents (%d chunks), skipped %d",
		report.DocumentsIndexed, report.ChunksIndexed, len(report.Skipped))
	return report, nil
}

// IngestFile ingests a single document into the live index.
func (s *IngestService) IngestFile(ctx context.Context, path string) error {
	chunks, err := s.ingestOne(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("ingested %s (%d chunks)", path, chunks)
	return nil
}

// collectPaths walks dir and returns all files with a supported
// extension, sorted for deterministic batch order.
func (s *IngestService) collectPaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := s.registry.ForPath(path); err != nil {
			logger.Debug("ignoring %s: %v", path, err)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ingestOne reads, normalises, chunks, embeds and indexes a single
// document. Returns the number of chunks inserted.
func (s *IngestService) ingestOne(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	normaliser, err := s.registry.ForPath(path)
	if err != nil {
		return 0, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	doc, err := normaliser.Normalise(ctx, path, content)
	if err != nil {
		return 0, err
	}

	chunks, err := s.splitter.Split(*doc)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		logger.Debug("%s produced no chunks", path)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := embedBatchWithRetry(ctx, s.embedder, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			domain.ErrInvalidInput, len(vectors), len(chunks))
	}

	for i, ch := range chunks {
		entry := domain.IndexEntry{Vector: vectors[i], Chunk: ch}
		if err := s.index.Insert(ctx, entry); err != nil {
			return 0, fmt.Errorf("index chunk %d of %s: %w", ch.Position, path, err)
		}
	}
	return len(chunks), nil
}
