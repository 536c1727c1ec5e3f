package driven

import (
	"context"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

// SessionStore persists conversation sessions at session boundaries.
// The serialisation format and location are the adapter's concern; the
// core only hands over an in-memory Session and gets one back.
type SessionStore interface {
	// Save writes the full session (turns and preferences).
	Save(ctx context.Context, session *domain.Session) error

	// Load restores a previously saved session by ID.
	// Returns domain.ErrNotFound when no such session exists.
	Load(ctx context.Context, id string) (*domain.Session, error)

	// Close releases resources.
	Close() error
}
