package driving

import (
	"context"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// RetrievalService embeds a query, asks the vector index for the top-k
// candidates and filters them by a relevance threshold.
type RetrievalService interface {
	// Retrieve returns at most k chunks with score >= minScore,
	// descending by score. May return fewer than k, including none.
	// Propagates domain.ErrEmbeddingUnavailable and
	// domain.ErrDimensionMismatch from lower layers.
	Retrieve(ctx context.Context, query string, k int, minScore float64) (domain.RetrievalResult, error)
}
