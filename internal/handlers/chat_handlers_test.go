package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportchat-backend/internal/api"
	"supportchat-backend/internal/config"
	"supportchat-backend/internal/docs"
	"supportchat-backend/internal/handlers"
	"supportchat-backend/internal/models"
	"supportchat-backend/internal/resolver"
	"supportchat-backend/internal/services"
	"supportchat-backend/internal/store"
	"supportchat-backend/internal/store/memory"
)

func setupRouter(st store.Store) http.Handler {
	corpus := docs.NewStore([]models.Document{
		{Title: "refund policy", Content: "Refunds within 30 days."},
	})
	chatService := services.NewChatService(st, corpus, 0)

	return api.NewRouter(api.RouterDependencies{
		ChatHandler: handlers.NewChatHandlers(chatService),
		Config:      &config.Config{CORSAllowedOrigins: []string{"*"}},
	})
}

func postChat(t *testing.T, router http.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsMatchedReply(t *testing.T) {
	router := setupRouter(memory.NewMemoryStore())

	resp := postChat(t, router, map[string]string{
		"sessionId": "sess-1",
		"message":   "what's your refund policy?",
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body models.ChatResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Refunds within 30 days.", body.Reply)
}

func TestChatReturnsFallback(t *testing.T) {
	router := setupRouter(memory.NewMemoryStore())

	resp := postChat(t, router, map[string]string{
		"sessionId": "sess-1",
		"message":   "hello",
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body models.ChatResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, resolver.Fallback, body.Reply)
}

func TestChatMissingFieldsIsBadRequest(t *testing.T) {
	st := memory.NewMemoryStore()
	router := setupRouter(st)

	for _, body := range []map[string]string{
		{"message": "hello"},
		{"sessionId": "sess-1"},
		{},
	} {
		resp := postChat(t, router, body)
		require.Equal(t, http.StatusBadRequest, resp.Code)

		var errBody models.ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
		assert.NotEmpty(t, errBody.Error)
	}

	// A rejected request must not create sessions or messages.
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestChatStorageFailureIsInternalError(t *testing.T) {
	router := setupRouter(failingStore{})

	resp := postChat(t, router, map[string]string{
		"sessionId": "sess-1",
		"message":   "hello",
	})

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errBody models.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
	assert.Equal(t, "storage unavailable", errBody.Error)
}

func TestConversationListsTurnInOrder(t *testing.T) {
	router := setupRouter(memory.NewMemoryStore())

	resp := postChat(t, router, map[string]string{
		"sessionId": "sess-1",
		"message":   "what's your refund policy?",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/conversations/sess-1", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var conversation []models.MessageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &conversation))
	require.Len(t, conversation, 2)
	assert.Equal(t, models.RoleUser, conversation[0].Role)
	assert.Equal(t, "what's your refund policy?", conversation[0].Content)
	assert.Equal(t, models.RoleAssistant, conversation[1].Role)
	assert.Equal(t, "Refunds within 30 days.", conversation[1].Content)
	assert.False(t, conversation[0].CreatedAt.IsZero())
}

func TestSessionsListedNewestFirst(t *testing.T) {
	router := setupRouter(memory.NewMemoryStore())

	for _, sessionID := range []string{"a", "b", "a"} {
		resp := postChat(t, router, map[string]string{
			"sessionId": sessionID,
			"message":   "hello",
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var sessions []models.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Equal(t, "b", sessions[1].ID)
}

func TestLivenessEndpoints(t *testing.T) {
	router := setupRouter(memory.NewMemoryStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Body.String())

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
}

// failingStore returns a storage failure from every operation.
type failingStore struct{}

var _ store.Store = failingStore{}

func (failingStore) EnsureSession(context.Context, string) error { return store.ErrUnavailable }

func (failingStore) AppendMessage(context.Context, string, models.Role, string) error {
	return store.ErrUnavailable
}

func (failingStore) RecentMessages(context.Context, string, int) ([]models.Message, error) {
	return nil, store.ErrUnavailable
}

func (failingStore) AllMessages(context.Context, string) ([]models.Message, error) {
	return nil, store.ErrUnavailable
}

func (failingStore) ListSessions(context.Context) ([]models.Session, error) {
	return nil, store.ErrUnavailable
}

func (failingStore) TouchSession(context.Context, string) error { return store.ErrUnavailable }

func (failingStore) RecordTurn(context.Context, string, string, string) error {
	return store.ErrUnavailable
}
