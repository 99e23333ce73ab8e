package services

import (
	"aichat-backend/internal/auth"
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Custom errors for the user service
var (
	ErrUserAlreadyExists = errors.New("user with this username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrHashingPassword   = errors.New("failed to hash password")
	ErrValidation        = errors.New("input validation failed")
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password cannot be empty", ErrValidation)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing password for %q: %v", username, err)
		return nil, ErrHashingPassword
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		Username:       username,
		HashedPassword: hashed,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, ErrUserAlreadyExists
		}
		log.Printf("Error creating user %q: %v", username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Created user %q (ID: %s)", user.Username, user.ID)
	return user, nil
}

// GetUserByUsername looks up a user by their unique username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
