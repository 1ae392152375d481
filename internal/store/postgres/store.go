package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"supportchat-backend/internal/models"
	"supportchat-backend/internal/store"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS messages (
    id         UUID PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES sessions (id),
    role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_session_created
    ON messages (session_id, created_at);
`

// EnsureSchema creates the tables at startup when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

const ensureSession = `-- name: EnsureSession :exec
INSERT INTO sessions (id)
VALUES ($1)
ON CONFLICT (id) DO NOTHING;
`

func (s *PostgresStore) EnsureSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.Exec(ctx, ensureSession, sessionID); err != nil {
		return fmt.Errorf("%w: insert session: %v", store.ErrUnavailable, err)
	}
	return nil
}

const appendMessage = `-- name: AppendMessage :exec
INSERT INTO messages (id, session_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5);
`

func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID string, role models.Role, content string) error {
	_, err := s.db.Exec(ctx, appendMessage, uuid.New(), sessionID, string(role), content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: insert message: %v", store.ErrUnavailable, err)
	}
	return nil
}

const recentMessages = `-- name: RecentMessages :many
SELECT id, session_id, role, content, created_at
FROM messages
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2;
`

func (s *PostgresStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, recentMessages, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent messages: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan message row: %v", store.ErrUnavailable, err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate message rows: %v", store.ErrUnavailable, err)
	}

	// The query fetches newest-first to apply the limit; callers want
	// chronological order.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

const allMessages = `-- name: AllMessages :many
SELECT id, session_id, role, content, created_at
FROM messages
WHERE session_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) AllMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, allMessages, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: query messages: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan message row: %v", store.ErrUnavailable, err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate message rows: %v", store.ErrUnavailable, err)
	}
	return items, nil
}

const listSessions = `-- name: ListSessions :many
SELECT id, created_at, updated_at
FROM sessions
ORDER BY updated_at DESC;
`

func (s *PostgresStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := s.db.Query(ctx, listSessions)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var items []models.Session
	for rows.Next() {
		var sess models.Session
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan session row: %v", store.ErrUnavailable, err)
		}
		items = append(items, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate session rows: %v", store.ErrUnavailable, err)
	}
	return items, nil
}

const touchSession = `-- name: TouchSession :exec
UPDATE sessions
SET updated_at = $2
WHERE id = $1;
`

func (s *PostgresStore) TouchSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.Exec(ctx, touchSession, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: update session: %v", store.ErrUnavailable, err)
	}
	return nil
}

// RecordTurn writes one chat turn inside a single transaction. Timestamps are
// assigned in Go rather than via NOW(): Postgres pins now() for the whole
// transaction, which would leave the user and assistant rows tied on
// created_at.
func (s *PostgresStore) RecordTurn(ctx context.Context, sessionID, userContent, reply string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin turn: %v", store.ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, appendMessage, uuid.New(), sessionID, string(models.RoleUser), userContent, now); err != nil {
		return fmt.Errorf("%w: insert user message: %v", store.ErrUnavailable, err)
	}
	// The assistant row must sort after the user row even if the clock did
	// not advance between the two inserts.
	if _, err := tx.Exec(ctx, appendMessage, uuid.New(), sessionID, string(models.RoleAssistant), reply, now.Add(time.Microsecond)); err != nil {
		return fmt.Errorf("%w: insert assistant message: %v", store.ErrUnavailable, err)
	}
	if _, err := tx.Exec(ctx, touchSession, sessionID, now); err != nil {
		return fmt.Errorf("%w: touch session: %v", store.ErrUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit turn: %v", store.ErrUnavailable, err)
	}
	return nil
}
