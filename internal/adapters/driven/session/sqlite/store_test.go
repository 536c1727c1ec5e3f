package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession() *domain.Session {
	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return &domain.Session{
		ID:        "sess-001",
		StartedAt: started,
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Text: "What sold in Coral Gables recently?", Timestamp: started.Add(time.Second)},
			{Role: domain.RoleAssistant, Text: "Three listings closed above asking.", Timestamp: started.Add(2 * time.Second)},
		},
		Preferences: map[string]string{"location": "Coral Gables"},
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	session := sampleSession()

	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, loaded.ID)
	assert.True(t, session.StartedAt.Equal(loaded.StartedAt))
	require.Len(t, loaded.Turns, 2)
	assert.Equal(t, domain.RoleUser, loaded.Turns[0].Role)
	assert.Equal(t, session.Turns[0].Text, loaded.Turns[0].Text)
	assert.True(t, session.Turns[1].Timestamp.Equal(loaded.Turns[1].Timestamp))
	assert.Equal(t, "Coral Gables", loaded.Preferences["location"])
}

func TestSave_ReplacesPreviousState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	session := sampleSession()

	require.NoError(t, store.Save(ctx, session))

	// Shrink the session and change a preference; the stored copy must
	// match exactly, not accumulate.
	session.Turns = session.Turns[:1]
	session.Preferences["location"] = "Brickell"
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Turns, 1)
	assert.Equal(t, "Brickell", loaded.Preferences["location"])
}

func TestLoad_UnknownSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_RequiresID(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &domain.Session{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveLoad_EmptySession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session := &domain.Session{ID: "empty", StartedAt: time.Now().UTC()}
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, loaded.Turns)
	assert.Empty(t, loaded.Preferences)
}

func TestStore_MultipleSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleSession()
	second := sampleSession()
	second.ID = "sess-002"
	second.Turns = second.Turns[:1]

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	loadedFirst, err := store.Load(ctx, first.ID)
	require.NoError(t, err)
	loadedSecond, err := store.Load(ctx, second.ID)
	require.NoError(t, err)

	assert.Len(t, loadedFirst.Turns, 2)
	assert.Len(t, loadedSecond.Turns, 1)
}
