package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfig indicates bad construction parameters, such as a
	// chunk overlap that is not smaller than the chunk size. Fatal at
	// construction time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates a document format the engine
	// cannot ingest. Such files are skipped, never fatal to a batch.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmbeddingUnavailable indicates the embedding model or service
	// cannot be reached. Recoverable: callers retry with backoff, then
	// skip the affected document or degrade the query.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index dimension, typically an index built with a different
	// embedder version. Fatal; vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrWebSearchUnavailable indicates the web search provider failed
	// (timeout, quota). Recoverable: routing degrades to the remaining
	// sources and the failure is treated as "no web results".
	ErrWebSearchUnavailable = errors.New("web search unavailable")

	// ErrLLMUnavailable indicates the text generation service is not
	// configured or cannot be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
