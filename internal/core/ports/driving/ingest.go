package driving

import "context"

// IngestReport summarises an ingestion batch.
type IngestReport struct {
	// DocumentsIndexed is the number of documents chunked and stored.
	DocumentsIndexed int

	// ChunksIndexed is the total number of chunks inserted.
	ChunksIndexed int

	// Skipped lists source paths that failed and were skipped. A bad
	// document never aborts the batch.
	Skipped []string
}

// IngestService builds the vector index from a document collection.
type IngestService interface {
	// IngestDirectory walks dir, ingesting every supported document.
	IngestDirectory(ctx context.Context, dir string) (IngestReport, error)

	// IngestFile ingests a single document into the live index.
	IngestFile(ctx context.Context, path string) error
}
