package store

import (
	"aichat-backend/internal/models"
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUsername is returned when creating a user whose username is
// already taken. Uniqueness is enforced at creation time.
var ErrDuplicateUsername = errors.New("username already exists")

// CreateUserParams contains parameters for creating a user.
// HashedPassword must already be bcrypt-hashed by the caller.
type CreateUserParams struct {
	ID             uuid.UUID
	Username       string
	HashedPassword string
}

// CreateChatSessionParams contains parameters for creating a chat session.
// An empty Title gets the "New Chat" default in the implementation.
type CreateChatSessionParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Title  string
}

// AddMessageParams contains parameters for persisting a message.
type AddMessageParams struct {
	ID            uuid.UUID
	ChatSessionID *uuid.UUID
	UserID        *uuid.UUID
	Content       string
	Role          models.Role
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
//
// All lookups against a nonexistent id return ErrNotFound rather than a hard
// failure; only integrity violations (uniqueness, missing foreign key) are
// surfaced as errors of their own.
type Store interface {
	// User operations
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error)

	// Chat session operations
	CreateChatSession(ctx context.Context, arg CreateChatSessionParams) (*models.ChatSession, error)
	// GetChatSessionsByUser returns sessions ordered by updated_at descending,
	// most recently active first.
	GetChatSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error)
	GetChatSessionByID(ctx context.Context, id uuid.UUID) (*models.ChatSession, error)
	// UpdateChatSessionTitle renames the session and refreshes updated_at.
	UpdateChatSessionTitle(ctx context.Context, id uuid.UUID, title string) (*models.ChatSession, error)
	// DeleteChatSession removes the session and cascades to its messages.
	DeleteChatSession(ctx context.Context, id uuid.UUID) error

	// Message operations
	//
	// AddMessage persists the message, and when it carries a session reference
	// it refreshes that session's updated_at in the same atomic unit. No
	// message is added without its parent session's activity timestamp
	// advancing.
	AddMessage(ctx context.Context, arg AddMessageParams) (*models.Message, error)
	// GetMessagesBySession returns messages ordered by timestamp ascending.
	GetMessagesBySession(ctx context.Context, chatSessionID uuid.UUID) ([]models.Message, error)
	DeleteMessages(ctx context.Context, chatSessionID uuid.UUID) error
}
