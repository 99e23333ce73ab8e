package memory

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, s *MemoryStore, username string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), store.CreateUserParams{
		Username:       username,
		HashedPassword: "hashed",
	})
	require.NoError(t, err)
	return user
}

func newTestSession(t *testing.T, s *MemoryStore, userID uuid.UUID, title string) *models.ChatSession {
	t.Helper()
	sess, err := s.CreateChatSession(context.Background(), store.CreateChatSessionParams{
		UserID: userID,
		Title:  title,
	})
	require.NoError(t, err)
	return sess
}

func addMessage(t *testing.T, s *MemoryStore, sessionID, userID uuid.UUID, content string, role models.Role) *models.Message {
	t.Helper()
	msg, err := s.AddMessage(context.Background(), store.AddMessageParams{
		ChatSessionID: &sessionID,
		UserID:        &userID,
		Content:       content,
		Role:          role,
	})
	require.NoError(t, err)
	return msg
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := NewMemoryStore()
	newTestUser(t, s, "alice")

	_, err := s.CreateUser(context.Background(), store.CreateUserParams{
		Username:       "alice",
		HashedPassword: "other",
	})
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestGetUserNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserByUsername(t *testing.T) {
	s := NewMemoryStore()
	created := newTestUser(t, s, "alice")

	got, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateChatSessionDefaultTitle(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")

	sess := newTestSession(t, s, user.ID, "")
	assert.Equal(t, "New Chat", sess.Title)
	assert.False(t, sess.UpdatedAt.Before(sess.CreatedAt))
}

func TestAddMessageAdvancesSessionTimestamp(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	sess := newTestSession(t, s, user.ID, "")
	prior := sess.UpdatedAt

	msg := addMessage(t, s, sess.ID, user.ID, "hello", models.RoleUser)

	updated, err := s.GetChatSessionByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(prior), "updated_at must strictly advance on append")
	assert.False(t, updated.UpdatedAt.Before(msg.Timestamp), "updated_at must be >= the message timestamp")
}

func TestAddMessageUnknownSession(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	missing := uuid.New()

	_, err := s.AddMessage(context.Background(), store.AddMessageParams{
		ChatSessionID: &missing,
		UserID:        &user.ID,
		Content:       "hello",
		Role:          models.RoleUser,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddMessageRejectsUnknownRole(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	sess := newTestSession(t, s, user.ID, "")

	_, err := s.AddMessage(context.Background(), store.AddMessageParams{
		ChatSessionID: &sess.ID,
		UserID:        &user.ID,
		Content:       "hello",
		Role:          models.Role("system"),
	})
	assert.Error(t, err)
}

func TestSessionOrderingByLastActivity(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")

	a := newTestSession(t, s, user.ID, "A")
	b := newTestSession(t, s, user.ID, "B")
	c := newTestSession(t, s, user.ID, "C")

	// Touch C then B, leaving A the oldest.
	addMessage(t, s, c.ID, user.ID, "to c", models.RoleUser)
	addMessage(t, s, b.ID, user.ID, "to b", models.RoleUser)

	sessions, err := s.GetChatSessionsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, b.ID, sessions[0].ID)
	assert.Equal(t, c.ID, sessions[1].ID)
	assert.Equal(t, a.ID, sessions[2].ID)
}

func TestMessageRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	sess := newTestSession(t, s, user.ID, "")

	addMessage(t, s, sess.ID, user.ID, "first", models.RoleUser)
	addMessage(t, s, sess.ID, user.ID, "second", models.RoleAssistant)
	addMessage(t, s, sess.ID, user.ID, "third", models.RoleUser)

	msgs, err := s.GetMessagesBySession(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "third", msgs[2].Content)
	for i := 1; i < len(msgs); i++ {
		assert.True(t, msgs[i].Timestamp.After(msgs[i-1].Timestamp), "timestamps must ascend")
	}
}

func TestDeleteChatSessionCascades(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	doomed := newTestSession(t, s, user.ID, "doomed")
	kept := newTestSession(t, s, user.ID, "kept")

	addMessage(t, s, doomed.ID, user.ID, "one", models.RoleUser)
	addMessage(t, s, doomed.ID, user.ID, "two", models.RoleAssistant)
	addMessage(t, s, kept.ID, user.ID, "survivor", models.RoleUser)

	require.NoError(t, s.DeleteChatSession(context.Background(), doomed.ID))

	_, err := s.GetChatSessionByID(context.Background(), doomed.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	orphans, err := s.GetMessagesBySession(context.Background(), doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans, "cascade must remove all of the session's messages")

	remaining, err := s.GetMessagesBySession(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other sessions' messages must be untouched")
}

func TestDeleteChatSessionNotFound(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorIs(t, s.DeleteChatSession(context.Background(), uuid.New()), store.ErrNotFound)
}

func TestUpdateChatSessionTitle(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	sess := newTestSession(t, s, user.ID, "")
	prior := sess.UpdatedAt

	renamed, err := s.UpdateChatSessionTitle(context.Background(), sess.ID, "Travel plans")
	require.NoError(t, err)
	assert.Equal(t, "Travel plans", renamed.Title)
	assert.True(t, renamed.UpdatedAt.After(prior))

	_, err = s.UpdateChatSessionTitle(context.Background(), uuid.New(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMessages(t *testing.T) {
	s := NewMemoryStore()
	user := newTestUser(t, s, "alice")
	sess := newTestSession(t, s, user.ID, "")
	addMessage(t, s, sess.ID, user.ID, "one", models.RoleUser)

	require.NoError(t, s.DeleteMessages(context.Background(), sess.ID))

	msgs, err := s.GetMessagesBySession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Deleting messages of an unknown session is a no-op, not an error.
	assert.NoError(t, s.DeleteMessages(context.Background(), uuid.New()))
}
