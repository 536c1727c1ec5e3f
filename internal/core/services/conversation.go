package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

// ConversationStore owns the in-memory session: the append-only turn
// history and the user preferences. Nothing else mutates the session;
// persistence happens only at session boundaries through the
// SessionStore port.
type ConversationStore struct {
	mu      sync.RWMutex
	session domain.Session
	store   driven.SessionStore
}

// NewConversationStore starts a fresh session. The session store may
// be nil for a purely in-memory session.
func NewConversationStore(store driven.SessionStore) *ConversationStore {
	return &ConversationStore{
		session: domain.Session{
			ID:          uuid.New().String(),
			StartedAt:   time.Now(),
			Preferences: make(map[string]string),
		},
		store: store,
	}
}

// Resume loads a previously saved session in place of the fresh one.
func (c *ConversationStore) Resume(ctx context.Context, id string) error {
	if c.store == nil {
		return fmt.Errorf("%w: no session store configured", domain.ErrNotFound)
	}
	session, err := c.store.Load(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = *session
	if c.session.Preferences == nil {
		c.session.Preferences = make(map[string]string)
	}
	logger.Info("resumed session %s (%d turns)", id, len(c.session.Turns))
	return nil
}

// SessionID returns the current session identifier.
func (c *ConversationStore) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.ID
}

// Append adds a turn to the history.
func (c *ConversationStore) Append(turn domain.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Turns = append(c.session.Turns, turn)
}

// Recent returns a copy of the last n turns, oldest first.
func (c *ConversationStore) Recent(n int) []domain.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	turns := c.session.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// All returns a copy of the full ordered history.
func (c *ConversationStore) All() []domain.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Turn, len(c.session.Turns))
	copy(out, c.session.Turns)
	return out
}

// SetPreference stores a user preference such as "location".
func (c *ConversationStore) SetPreference(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Preferences[key] = value
}

// Preference returns one preference value.
func (c *ConversationStore) Preference(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.session.Preferences[key]
	return v, ok
}

// Preferences returns a copy of all preferences.
func (c *ConversationStore) Preferences() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.session.Preferences))
	for k, v := range c.session.Preferences {
		out[k] = v
	}
	return out
}

// Flush persists the session through the session store. A nil store
// makes this a no-op.
func (c *ConversationStore) Flush(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.mu.RLock()
	snapshot := domain.Session{
		ID:          c.session.ID,
		StartedAt:   c.session.StartedAt,
		Turns:       make([]domain.Turn, len(c.session.Turns)),
		Preferences: make(map[string]string, len(c.session.Preferences)),
	}
	copy(snapshot.Turns, c.session.Turns)
	for k, v := range c.session.Preferences {
		snapshot.Preferences[k] = v
	}
	c.mu.RUnlock()

	if err := c.store.Save(ctx, &snapshot); err != nil {
		return fmt.Errorf("save session %s: %w", snapshot.ID, err)
	}
	logger.Debug("session %s flushed (%d turns)", snapshot.ID, len(snapshot.Turns))
	return nil
}
