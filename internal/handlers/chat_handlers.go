package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"supportchat-backend/internal/models"
	"supportchat-backend/internal/services"
	"supportchat-backend/internal/store"
	"supportchat-backend/pkg/httputil"
)

// ChatHandlers handles the chat API endpoints.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// HandleChat processes one chat turn: POST /api/chat.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatService.HandleTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			httputil.RespondError(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
			return
		}
		log.Printf("ERROR [ChatHandlers] HandleChat: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, store.ErrUnavailable.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// HandleGetConversation returns the full history of a session, oldest first:
// GET /api/conversations/{sessionID}.
func (h *ChatHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conversation, err := h.chatService.Conversation(r.Context(), sessionID)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleGetConversation: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, store.ErrUnavailable.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversation)
}

// HandleListSessions returns all sessions, most recently active first:
// GET /api/sessions.
func (h *ChatHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatService.Sessions(r.Context())
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleListSessions: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, store.ErrUnavailable.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sessions)
}
