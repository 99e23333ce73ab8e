package memory

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time check to ensure MemoryStore implements store.Store
var _ store.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store implementation. It backs minimal
// deployments that run without a DATABASE_URL and is the store used in tests.
// It upholds the same contract as the Postgres store: ErrNotFound for absent
// records, cascade deletes, and the message-insert/session-touch coupling.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	sessions map[uuid.UUID]*models.ChatSession
	messages map[uuid.UUID][]*models.Message // keyed by chat session id
	lastTick time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]*models.User),
		sessions: make(map[uuid.UUID]*models.ChatSession),
		messages: make(map[uuid.UUID][]*models.Message),
	}
}

// now returns a strictly increasing timestamp so that successive appends
// always advance a session's updated_at, matching NOW() semantics at the
// resolution the invariants need. Callers must hold mu.
func (s *MemoryStore) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastTick) {
		t = s.lastTick.Add(time.Nanosecond)
	}
	s.lastTick = t
	return t
}

// --- User Methods ---

func (s *MemoryStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, arg store.CreateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == arg.Username {
			return nil, store.ErrDuplicateUsername
		}
	}

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	user := &models.User{
		ID:             id,
		Username:       arg.Username,
		HashedPassword: arg.HashedPassword,
		CreatedAt:      s.now(),
	}
	s.users[id] = user

	u := *user
	return &u, nil
}

// --- Chat Session Methods ---

func (s *MemoryStore) CreateChatSession(_ context.Context, arg store.CreateChatSessionParams) (*models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.UserID]; !ok {
		return nil, fmt.Errorf("user %s does not exist", arg.UserID)
	}

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	title := arg.Title
	if title == "" {
		title = "New Chat"
	}

	now := s.now()
	session := &models.ChatSession{
		ID:        id,
		UserID:    arg.UserID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = session

	out := *session
	return &out, nil
}

func (s *MemoryStore) GetChatSessionsByUser(_ context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []models.ChatSession
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sessions = append(sessions, *sess)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *MemoryStore) GetChatSessionByID(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *sess
	return &out, nil
}

func (s *MemoryStore) UpdateChatSessionTitle(_ context.Context, id uuid.UUID, title string) (*models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	sess.Title = title
	sess.UpdatedAt = s.now()

	out := *sess
	return &out, nil
}

func (s *MemoryStore) DeleteChatSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sessions, id)
	delete(s.messages, id) // cascade
	return nil
}

// --- Message Methods ---

// AddMessage appends the message and, when it references a session, advances
// that session's updated_at under the same lock. Both happen or neither does.
func (s *MemoryStore) AddMessage(_ context.Context, arg store.AddMessageParams) (*models.Message, error) {
	if !arg.Role.Valid() {
		return nil, fmt.Errorf("invalid message role: %q", arg.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sess *models.ChatSession
	if arg.ChatSessionID != nil {
		var ok bool
		sess, ok = s.sessions[*arg.ChatSessionID]
		if !ok {
			return nil, store.ErrNotFound
		}
	}

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	msg := &models.Message{
		ID:            id,
		ChatSessionID: arg.ChatSessionID,
		UserID:        arg.UserID,
		Content:       arg.Content,
		Role:          arg.Role,
		Timestamp:     s.now(),
	}

	if sess != nil {
		s.messages[sess.ID] = append(s.messages[sess.ID], msg)
		sess.UpdatedAt = msg.Timestamp
	}

	out := *msg
	return &out, nil
}

func (s *MemoryStore) GetMessagesBySession(_ context.Context, chatSessionID uuid.UUID) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[chatSessionID]
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) DeleteMessages(_ context.Context, chatSessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatSessionID)
	return nil
}
