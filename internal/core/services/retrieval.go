package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers similarity queries against the vector index.
type RetrievalService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(embedder driven.EmbeddingService, index driven.VectorIndex) *RetrievalService {
	return &RetrievalService{embedder: embedder, index: index}
}

// Retrieve embeds the query, asks the index for the top-k candidates
// and drops everything under minScore. Returns at most k chunks in
// descending score order; possibly none.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int, minScore float64) (domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RetrievalResult{}, nil
	}
	if s.index.IsEmpty() {
		logger.Debug("retrieval skipped, index is empty")
		return domain.RetrievalResult{}, nil
	}

	vec, err := embedWithRetry(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.index.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	result := make(domain.RetrievalResult, 0, len(candidates))
	for _, sc := range candidates {
		if sc.Score >= minScore {
			result = append(result, sc)
		}
	}
	logger.Debug("retrieval: %d candidates, %d above min score %.2f",
		len(candidates), len(result), minScore)
	return result, nil
}
