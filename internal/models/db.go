package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message. Only the two values below are
// representable; everything else fails Valid().
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
}

// ChatSession represents a named container of messages belonging to one user.
// UpdatedAt is refreshed on every message append and acts as the session's
// last-activity timestamp.
type ChatSession struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message represents a single persisted chat message. Messages are immutable
// once created and are deleted only via cascade when their session goes away.
type Message struct {
	ID            uuid.UUID  `db:"id"`
	ChatSessionID *uuid.UUID `db:"chat_session_id"` // nil for messages not yet attached to a session
	UserID        *uuid.UUID `db:"user_id"`
	Content       string     `db:"content"`
	Role          Role       `db:"role"`
	Timestamp     time.Time  `db:"timestamp"`
}
