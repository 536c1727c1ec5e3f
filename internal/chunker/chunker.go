// Package chunker splits normalised document text into bounded,
// overlapping segments sized in runes.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping runes.
const DefaultOverlap = 200

// Chunker splits documents into fixed-size chunks with overlap.
// The overlap keeps information that straddles a chunk boundary
// retrievable from both sides.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker. Fails with domain.ErrInvalidConfig when
// chunkSize is not positive or overlap is not in [0, chunkSize).
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidConfig, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured chunk size in runes.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }

// Split scans the document text left to right, emitting a chunk of up
// to chunkSize runes at each step and advancing the cursor by
// chunkSize-overlap. A final shorter chunk is kept, never dropped.
// The document itself is not mutated. Empty content yields no chunks.
func (c *Chunker) Split(doc domain.Document) ([]domain.Chunk, error) {
	runes := []rune(doc.Content)
	total := len(runes)
	if total == 0 {
		return nil, nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]domain.Chunk, 0, total/step+1)

	position := 0
	prevEnd := 0
	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		overlap := 0
		if position > 0 && prevEnd > start {
			overlap = prevEnd - start
		}

		chunks = append(chunks, domain.Chunk{
			ID:              uuid.New().String(),
			DocumentID:      doc.ID,
			SourcePath:      doc.SourcePath,
			Text:            string(runes[start:end]),
			Position:        position,
			StartOffset:     start,
			EndOffset:       end,
			OverlapWithPrev: overlap,
		})

		position++
		prevEnd = end
		if end == total {
			break
		}
	}

	return chunks, nil
}
