package driven

import (
	"context"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// VectorIndex stores (vector, chunk) pairs and answers top-k cosine
// similarity queries.
//
// Brute-force linear scan is the correctness baseline; an approximate
// implementation may be substituted as long as it preserves ranking
// order under identical inputs up to floating-point tolerance.
//
// Insert must be safe to call from concurrent ingestion workers.
// Query calls must be safely concurrent with each other and observe
// either the pre- or post-insert state for any entry, never a torn
// one.
type VectorIndex interface {
	// Insert appends an entry. O(1) amortised; the entry is queryable
	// immediately. Returns an error wrapping domain.ErrDimensionMismatch
	// when the vector length differs from the index dimension.
	Insert(ctx context.Context, entry domain.IndexEntry) error

	// Query returns the top-k entries by cosine similarity to the
	// given vector, ties broken by insertion order (earlier wins).
	// An empty index yields an empty result, never an error. A vector
	// of the wrong length fails with domain.ErrDimensionMismatch and
	// leaves the index unmodified.
	Query(ctx context.Context, vector []float32, k int) (domain.RetrievalResult, error)

	// Size returns the number of stored entries. Duplicates count.
	Size() int

	// IsEmpty reports whether the index holds no entries.
	IsEmpty() bool

	// Dimensions returns the vector length this index was built for.
	Dimensions() int
}
