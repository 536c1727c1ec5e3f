package driven

import (
	"context"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// Normaliser extracts plain text from one raw document format and
// produces a Document ready for chunking.
type Normaliser interface {
	// Format returns the document format this normaliser handles.
	Format() domain.DocumentFormat

	// Normalise extracts text from raw file content. Returns an error
	// wrapping domain.ErrInvalidInput for malformed files; callers
	// skip such documents with a logged warning.
	Normalise(ctx context.Context, path string, content []byte) (*domain.Document, error)
}
