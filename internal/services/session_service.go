package services

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when the referenced chat session does not exist.
var ErrSessionNotFound = errors.New("chat session not found")

// SessionService manages chat sessions and their transcripts.
type SessionService struct {
	store store.Store
}

func NewSessionService(s store.Store) *SessionService {
	return &SessionService{store: s}
}

// CreateSession creates a session for the named user. Title is optional; the
// store applies the "New Chat" default.
func (s *SessionService) CreateSession(ctx context.Context, username string, title *string) (*models.ChatSession, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	params := store.CreateChatSessionParams{UserID: user.ID}
	if title != nil {
		params.Title = strings.TrimSpace(*title)
	}
	session, err := s.store.CreateChatSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ListSessionsByUsername returns the user's sessions, most recently active first.
func (s *SessionService) ListSessionsByUsername(ctx context.Context, username string) ([]models.ChatSession, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	sessions, err := s.store.GetChatSessionsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession fetches a single session by id.
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	session, err := s.store.GetChatSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// RenameSession updates the session title and refreshes its updated_at.
func (s *SessionService) RenameSession(ctx context.Context, id uuid.UUID, title string) (*models.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	session, err := s.store.UpdateChatSessionTitle(ctx, id, title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to rename session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session and, by cascade, all of its messages.
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteChatSession(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetMessages returns the session transcript in chronological order.
func (s *SessionService) GetMessages(ctx context.Context, id uuid.UUID) ([]models.Message, error) {
	if _, err := s.store.GetChatSessionByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}

	messages, err := s.store.GetMessagesBySession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
