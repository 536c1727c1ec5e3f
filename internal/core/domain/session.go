package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation exchange entry. Turns are appended per
// exchange and never mutated retroactively.
type Turn struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Session is the ordered conversation history plus user preferences.
// It is created on session start and flushed to durable storage at
// session boundaries by an external collaborator.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	// Turns is the append-only ordered history.
	Turns []Turn

	// Preferences maps preference keys (such as "location") to values.
	// Insertion order is irrelevant.
	Preferences map[string]string
}
