// Package memory implements store.Store with in-memory maps. It backs the
// server in dev mode (no DATABASE_URL) and the test suites; data does not
// survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"supportchat-backend/internal/models"
	"supportchat-backend/internal/store"
)

// Compile-time check to ensure MemoryStore implements store.Store
var _ store.Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	messages map[string][]models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		messages: make(map[string][]models.Message),
	}
}

func (s *MemoryStore) EnsureSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		return nil
	}
	now := time.Now().UTC()
	s.sessions[sessionID] = models.Session{ID: sessionID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, role models.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(sessionID, role, content, time.Now().UTC())
	return nil
}

// appendLocked assumes s.mu is held.
func (s *MemoryStore) appendLocked(sessionID string, role models.Role, content string, at time.Time) {
	s.messages[sessionID] = append(s.messages[sessionID], models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	})
}

func (s *MemoryStore) RecentMessages(_ context.Context, sessionID string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	copied := make([]models.Message, len(history))
	copy(copied, history)
	return copied, nil
}

func (s *MemoryStore) AllMessages(_ context.Context, sessionID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[sessionID]
	copied := make([]models.Message, len(history))
	copy(copied, history)
	return copied, nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		items = append(items, sess)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func (s *MemoryStore) TouchSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked(sessionID, time.Now().UTC())
	return nil
}

// touchLocked assumes s.mu is held.
func (s *MemoryStore) touchLocked(sessionID string, at time.Time) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	sess.UpdatedAt = at
	s.sessions[sessionID] = sess
}

// RecordTurn holds the lock across the whole turn, so concurrent turns on the
// same session cannot interleave inside a pair.
func (s *MemoryStore) RecordTurn(_ context.Context, sessionID, userContent, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.appendLocked(sessionID, models.RoleUser, userContent, now)
	s.appendLocked(sessionID, models.RoleAssistant, reply, now.Add(time.Microsecond))
	s.touchLocked(sessionID, now)
	return nil
}
