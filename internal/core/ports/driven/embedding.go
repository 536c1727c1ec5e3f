package driven

import "context"

// EmbeddingService maps text to fixed-dimension vectors.
//
// Implementations must be deterministic for a fixed model version:
// identical text yields the same vector within a small numeric
// tolerance. This determinism is what makes index rebuilds
// reproducible.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - A local deterministic hashing embedder for offline use
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Returns an error wrapping domain.ErrEmbeddingUnavailable when
	// the underlying model or service cannot be reached.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. It exists
	// purely for throughput; per-element semantics are identical to
	// repeated Embed calls.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 1536).
	// Every vector in an index instance must have this length.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before committing to ingestion.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
