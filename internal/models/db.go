package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session represents one conversation thread in the database. The id is
// minted by the client and treated as an opaque string; the server creates
// the row on the first turn that references it.
type Session struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message is a single utterance within a session. Rows are append-only and
// never updated or deleted; each chat turn produces a user/assistant pair.
type Message struct {
	ID        uuid.UUID `db:"id"`
	SessionID string    `db:"session_id"`
	Role      Role      `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// Document is one entry of the support corpus. The corpus is loaded once at
// startup and never mutated; ordering is significant because the resolver
// returns the first match.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
