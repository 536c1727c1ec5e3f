// Package hashing provides a deterministic, fully local embedding
// service. Tokens are hashed into a fixed number of buckets and the
// resulting count vector is L2-normalised. It needs no network and no
// model files, which makes it the offline default and the backend for
// reproducibility tests; semantic quality is naturally far below a
// learned model.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 384

// ModelNameValue identifies this embedder in logs and settings.
const ModelNameValue = "hashing-bow"

// EmbeddingService is the deterministic bag-of-tokens embedder.
type EmbeddingService struct {
	dimensions int
}

// New creates a hashing embedder. Fails with domain.ErrInvalidConfig
// for a non-positive dimension.
func New(dimensions int) (*EmbeddingService, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidConfig, dimensions)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// Embed maps text to a fixed-dimension vector. Identical text always
// yields a bit-identical vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	for _, token := range tokenise(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%s.dimensions]++
	}

	normalise(vec)
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelNameValue
}

// Ping always succeeds; there is no remote service.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenise lowercases and splits on anything that is not a letter or
// digit.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalise scales the vector to unit length in place. The zero vector
// stays zero.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
