package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// CompletionRequest defines the expected body for the chat endpoint.
// It is transient and never persisted.
type CompletionRequest struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// FieldError describes a single validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validate checks the request constraints and returns one FieldError per
// violation. It is pure: no mutation, no side effects. An empty result means
// the request is well-formed.
func (r CompletionRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Message) == "" {
		errs = append(errs, FieldError{Field: "message", Reason: "Message cannot be empty"})
	}
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Reason: "Username is required"})
	}
	return errs
}

// CreateUserRequest defines the body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateSessionRequest defines the body for creating a chat session.
type CreateSessionRequest struct {
	Username string  `json:"username"`
	Title    *string `json:"title,omitempty"`
}

// UpdateSessionTitleRequest defines the body for renaming a chat session.
type UpdateSessionTitleRequest struct {
	Title string `json:"title"`
}

// --- Response Structs ---

// MessageResponse is the wire representation of a message.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// CompletionResponse is the success envelope for POST /api/chat.
type CompletionResponse struct {
	Message MessageResponse `json:"message"`
}

// UserResponse defines the user information returned by the API.
// Never includes the hashed password.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSessionResponse defines the representation of a session in API responses.
type ChatSessionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListSessionsResponse defines the response for listing a user's sessions.
type ListSessionsResponse struct {
	Sessions []ChatSessionResponse `json:"sessions"`
}

// ListMessagesResponse defines the response for a session transcript.
type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse carries field-level detail for 400 responses.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// NewMessageResponse maps a stored message to its wire shape.
func NewMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		Role:      m.Role,
		Timestamp: m.Timestamp,
	}
}

// NewChatSessionResponse maps a stored session to its wire shape.
func NewChatSessionResponse(s *ChatSession) ChatSessionResponse {
	return ChatSessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
