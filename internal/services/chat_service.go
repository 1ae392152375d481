package services

import (
	"context"
	"errors"
	"fmt"

	"supportchat-backend/internal/docs"
	"supportchat-backend/internal/models"
	"supportchat-backend/internal/resolver"
	"supportchat-backend/internal/store"
)

// ErrInvalidInput is returned when the session id or the message is empty.
var ErrInvalidInput = errors.New("sessionId and message required")

// DefaultHistoryLimit bounds the context window fetched per turn (5 turns).
const DefaultHistoryLimit = 10

// ChatService orchestrates chat turns against the document corpus.
type ChatService struct {
	store        store.Store
	docs         *docs.Store
	historyLimit int
}

// NewChatService creates a new ChatService.
func NewChatService(st store.Store, corpus *docs.Store, historyLimit int) *ChatService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ChatService{
		store:        st,
		docs:         corpus,
		historyLimit: historyLimit,
	}
}

// HandleTurn runs one request/response cycle: it creates the session if
// needed, resolves a reply from the corpus, and records the user/assistant
// pair atomically.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, message string) (string, error) {
	if sessionID == "" || message == "" {
		return "", ErrInvalidInput
	}

	if err := s.store.EnsureSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("ensuring session: %w", err)
	}

	// The recent window is fetched but not fed into resolution yet; it is
	// reserved for context-aware matching.
	if _, err := s.store.RecentMessages(ctx, sessionID, s.historyLimit); err != nil {
		return "", fmt.Errorf("loading recent messages: %w", err)
	}

	reply := resolver.Resolve(message, s.docs.Documents())

	if err := s.store.RecordTurn(ctx, sessionID, message, reply); err != nil {
		return "", fmt.Errorf("recording turn: %w", err)
	}

	return reply, nil
}

// Conversation returns the full history of a session for display, oldest
// first. An unknown session yields an empty list, not an error.
func (s *ChatService) Conversation(ctx context.Context, sessionID string) ([]models.MessageResponse, error) {
	messages, err := s.store.AllMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	out := make([]models.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, models.MessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// Sessions returns all sessions, most recently active first.
func (s *ChatService) Sessions(ctx context.Context) ([]models.SessionResponse, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	out := make([]models.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, models.SessionResponse{
			ID:        sess.ID,
			UpdatedAt: sess.UpdatedAt,
		})
	}
	return out, nil
}
