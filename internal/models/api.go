package models

import "time"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResponse carries the assistant reply for a completed chat turn.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// MessageResponse is one row of GET /api/conversations/{sessionID}.
type MessageResponse struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is one row of GET /api/sessions.
type SessionResponse struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse is the JSON shape of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
