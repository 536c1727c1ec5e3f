// Package memory provides an in-memory vector index using brute-force
// cosine similarity. It is the correctness baseline every alternative
// index implementation is measured against.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is a stored vector with its precomputed magnitude. The norm
// cache avoids recomputing magnitudes on every query.
type entry struct {
	vector []float32
	norm   float64
	chunk  domain.Chunk
}

// Index stores embedded chunks and answers top-k queries by scanning
// every entry. Insert is guarded by an exclusive lock so concurrent
// ingestion workers are safe; queries take a read lock and may run
// concurrently with each other.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	entries    []entry
}

// New creates an index for vectors of the given dimension.
// Fails with domain.ErrInvalidConfig for a non-positive dimension.
func New(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidConfig, dimensions)
	}
	return &Index{dimensions: dimensions}, nil
}

// Insert appends an entry. Duplicates are allowed and not collapsed;
// inserting the same entry twice grows the index by two.
func (ix *Index) Insert(_ context.Context, e domain.IndexEntry) error {
	if len(e.Vector) != ix.dimensions {
		return fmt.Errorf("%w: got %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(e.Vector), ix.dimensions)
	}

	// Copy the vector so the caller cannot mutate stored state.
	vec := make([]float32, len(e.Vector))
	copy(vec, e.Vector)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = append(ix.entries, entry{
		vector: vec,
		norm:   norm(vec),
		chunk:  e.Chunk,
	})
	return nil
}

// Query scans all entries and returns the top-k by cosine similarity,
// descending. Ties are broken by insertion order, earlier entries
// first. An empty index returns an empty result. A query vector of the
// wrong length fails with domain.ErrDimensionMismatch and leaves the
// index unmodified.
func (ix *Index) Query(_ context.Context, vector []float32, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(vector) != ix.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(vector), ix.dimensions)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return domain.RetrievalResult{}, nil
	}

	qnorm := norm(vector)

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(ix.entries))
	for i := range ix.entries {
		scores[i] = scored{idx: i, score: cosine(vector, qnorm, &ix.entries[i])}
	}

	// Stable sort preserves insertion order among equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	result := make(domain.RetrievalResult, 0, k)
	for _, s := range scores[:k] {
		result = append(result, domain.ScoredChunk{
			Chunk: ix.entries[s.idx].chunk,
			Score: s.score,
		})
	}
	return result, nil
}

// Size returns the number of stored entries, duplicates included.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// IsEmpty reports whether the index holds no entries.
func (ix *Index) IsEmpty() bool { return ix.Size() == 0 }

// Dimensions returns the vector length this index was built for.
func (ix *Index) Dimensions() int { return ix.dimensions }

// cosine computes dot(q, e) / (|q| * |e|) using the cached entry norm.
// Zero-magnitude vectors score 0 rather than dividing by zero.
func cosine(q []float32, qnorm float64, e *entry) float64 {
	if qnorm == 0 || e.norm == 0 {
		return 0
	}
	var dot float64
	for i, v := range q {
		dot += float64(v) * float64(e.vector[i])
	}
	return dot / (qnorm * e.norm)
}

// norm computes the Euclidean magnitude of a vector.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
