// Package sqlite persists conversation sessions in a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS turns (
	session_id TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	role       TEXT    NOT NULL,
	text       TEXT    NOT NULL,
	timestamp  TEXT    NOT NULL,
	PRIMARY KEY (session_id, position)
);
CREATE TABLE IF NOT EXISTS preferences (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (session_id, key)
);
`

// Store is a SQLite-backed session store. Sessions are written whole
// at session boundaries, so Save replaces any previous turns and
// preferences for the same ID.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema
// exists.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: session database path is required", domain.ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise session schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save writes the full session in a single transaction, replacing any
// previously stored turns and preferences.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session with an ID is required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET started_at = excluded.started_at`,
		session.ID, session.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear turns for %s: %w", session.ID, err)
	}
	for i, turn := range session.Turns {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, position, role, text, timestamp) VALUES (?, ?, ?, ?, ?)`,
			session.ID, i, string(turn.Role), turn.Text, turn.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("save turn %d for %s: %w", i, session.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear preferences for %s: %w", session.ID, err)
	}
	for key, value := range session.Preferences {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO preferences (session_id, key, value) VALUES (?, ?, ?)`,
			session.ID, key, value,
		)
		if err != nil {
			return fmt.Errorf("save preference %q for %s: %w", key, session.ID, err)
		}
	}

	return tx.Commit()
}

// Load restores a session by ID. Returns domain.ErrNotFound when the
// session does not exist.
func (s *Store) Load(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session ID is required", domain.ErrInvalidInput)
	}

	var startedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT started_at FROM sessions WHERE id = ?`, id,
	).Scan(&startedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	session := &domain.Session{
		ID:          id,
		Preferences: make(map[string]string),
	}
	session.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at for %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, text, timestamp FROM turns WHERE session_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("load turns for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var role, text, ts string
		if err := rows.Scan(&role, &text, &ts); err != nil {
			return nil, fmt.Errorf("scan turn for %s: %w", id, err)
		}
		turn := domain.Turn{Role: domain.Role(role), Text: text}
		turn.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse turn timestamp for %s: %w", id, err)
		}
		session.Turns = append(session.Turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns for %s: %w", id, err)
	}

	prefRows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE session_id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("load preferences for %s: %w", id, err)
	}
	defer prefRows.Close()
	for prefRows.Next() {
		var key, value string
		if err := prefRows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference for %s: %w", id, err)
		}
		session.Preferences[key] = value
	}
	if err := prefRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences for %s: %w", id, err)
	}

	return session, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
