package domain

// IndexEntry pairs an embedding vector with the chunk it represents.
// Entries are owned exclusively by the vector index once inserted.
type IndexEntry struct {
	// Vector is the fixed-dimension embedding of the chunk text.
	Vector []float32

	// Chunk is the indexed text segment.
	Chunk Chunk
}

// ScoredChunk is a chunk paired with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// RetrievalResult is an ordered sequence of scored chunks, descending
// by score, at most K long. Duplicate chunks may appear when the same
// entry was inserted more than once; the index does not deduplicate.
type RetrievalResult []ScoredChunk

// Empty reports whether the result holds no chunks.
func (r RetrievalResult) Empty() bool { return len(r) == 0 }

// TopScore returns the best score, or 0 for an empty result.
func (r RetrievalResult) TopScore() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[0].Score
}
