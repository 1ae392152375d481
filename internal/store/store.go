package store

import (
	"context"
	"errors"

	"supportchat-backend/internal/models"
)

// ErrUnavailable is wrapped into every storage-layer failure. Callers get no
// partial results and no automatic retry.
var ErrUnavailable = errors.New("storage unavailable")

// Store defines the conversation persistence operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// EnsureSession inserts the session row if absent. Idempotent; an
	// existing session is not an error.
	EnsureSession(ctx context.Context, sessionID string) error

	// AppendMessage inserts a message with a server-assigned timestamp.
	AppendMessage(ctx context.Context, sessionID string, role models.Role, content string) error

	// RecentMessages returns up to limit of the newest messages for the
	// session, in chronological (oldest first) order.
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error)

	// AllMessages returns the full session history in chronological order.
	AllMessages(ctx context.Context, sessionID string) ([]models.Message, error)

	// ListSessions returns all sessions, most recently active first.
	ListSessions(ctx context.Context) ([]models.Session, error)

	// TouchSession sets the session's updated_at to the current time.
	TouchSession(ctx context.Context, sessionID string) error

	// RecordTurn appends the user message and the assistant reply and touches
	// the session as one atomic unit, so a half-written turn never becomes
	// visible to the next one. The assistant row orders strictly after the
	// user row.
	RecordTurn(ctx context.Context, sessionID, userContent, reply string) error
}
