package services

import (
	"aichat-backend/internal/auth"
	"aichat-backend/internal/llm"
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ChatService orchestrates a completion exchange: invoke the completion
// client, persist both sides of the conversation, and return the assistant
// message. The completion step cannot fail the request; only persistence
// faults surface as errors.
type ChatService struct {
	store     store.Store
	completer llm.Completer
}

func NewChatService(s store.Store, completer llm.Completer) *ChatService {
	return &ChatService{
		store:     s,
		completer: completer,
	}
}

// Respond handles a validated completion request. The returned message always
// has role "assistant" and non-empty content — degraded provider replies are
// still successful responses.
func (s *ChatService) Respond(ctx context.Context, req models.CompletionRequest) (models.MessageResponse, error) {
	reply := s.completer.Complete(ctx, req.Message)

	assistantMsg, err := s.persistExchange(ctx, req.Username, req.Message, reply)
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("persisting exchange for %q: %w", req.Username, err)
	}
	return assistantMsg, nil
}

// persistExchange stores the user message and the assistant reply in the
// caller's most recent session, creating user and session on first contact.
// Each append advances the session's updated_at via the store contract.
func (s *ChatService) persistExchange(ctx context.Context, username, userText, assistantText string) (models.MessageResponse, error) {
	user, err := s.ensureUser(ctx, username)
	if err != nil {
		return models.MessageResponse{}, err
	}

	session, err := s.ensureSession(ctx, user.ID)
	if err != nil {
		return models.MessageResponse{}, err
	}

	_, err = s.store.AddMessage(ctx, store.AddMessageParams{
		ChatSessionID: &session.ID,
		UserID:        &user.ID,
		Content:       userText,
		Role:          models.RoleUser,
	})
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("storing user message: %w", err)
	}

	stored, err := s.store.AddMessage(ctx, store.AddMessageParams{
		ChatSessionID: &session.ID,
		UserID:        &user.ID,
		Content:       assistantText,
		Role:          models.RoleAssistant,
	})
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("storing assistant message: %w", err)
	}

	return models.NewMessageResponse(stored), nil
}

// ensureUser resolves the username, auto-registering it on first contact with
// a random placeholder password. The chat path never carries a password.
func (s *ChatService) ensureUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	hashed, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hashing placeholder password: %w", err)
	}
	user, err = s.store.CreateUser(ctx, store.CreateUserParams{
		Username:       username,
		HashedPassword: hashed,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			// Lost a race with another first-contact request; re-read.
			return s.store.GetUserByUsername(ctx, username)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Printf("[ChatService] Registered new user %q (ID: %s)", username, user.ID)
	return user, nil
}

// ensureSession returns the user's most recently active session, creating one
// with the default title when none exists.
func (s *ChatService) ensureSession(ctx context.Context, userID uuid.UUID) (*models.ChatSession, error) {
	sessions, err := s.store.GetChatSessionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) > 0 {
		return &sessions[0], nil
	}
	session, err := s.store.CreateChatSession(ctx, store.CreateChatSessionParams{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}
