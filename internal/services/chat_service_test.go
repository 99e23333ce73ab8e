package services

import (
	"aichat-backend/internal/llm"
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"aichat-backend/internal/store/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondPersistsBothSides(t *testing.T) {
	mem := memory.NewMemoryStore()
	completer := llm.NewMockCompleter("Hi there!")
	svc := NewChatService(mem, completer)

	msg, err := svc.Respond(context.Background(), models.CompletionRequest{
		Message:  "Hello",
		Username: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleAssistant, msg.Role)
	assert.Equal(t, "Hi there!", msg.Content)
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, 1, completer.Calls())
	assert.Equal(t, []string{"Hello"}, completer.Prompts())

	// First contact registers the user and opens a session.
	user, err := mem.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)

	sessions, err := mem.GetChatSessionsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "New Chat", sessions[0].Title)

	transcript, err := mem.GetMessagesBySession(context.Background(), sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, models.RoleUser, transcript[0].Role)
	assert.Equal(t, "Hello", transcript[0].Content)
	assert.Equal(t, models.RoleAssistant, transcript[1].Role)
	assert.Equal(t, "Hi there!", transcript[1].Content)
}

func TestRespondReusesMostRecentSession(t *testing.T) {
	mem := memory.NewMemoryStore()
	completer := llm.NewMockCompleter("ok")
	svc := NewChatService(mem, completer)

	ctx := context.Background()
	_, err := svc.Respond(ctx, models.CompletionRequest{Message: "first", Username: "alice"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, models.CompletionRequest{Message: "second", Username: "alice"})
	require.NoError(t, err)

	user, err := mem.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	sessions, err := mem.GetChatSessionsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1, "second exchange must land in the existing session")

	transcript, err := mem.GetMessagesBySession(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Len(t, transcript, 4)
}

func TestRespondKeepsUsersSeparate(t *testing.T) {
	mem := memory.NewMemoryStore()
	completer := llm.NewMockCompleter("ok")
	svc := NewChatService(mem, completer)

	ctx := context.Background()
	_, err := svc.Respond(ctx, models.CompletionRequest{Message: "from alice", Username: "alice"})
	require.NoError(t, err)
	_, err = svc.Respond(ctx, models.CompletionRequest{Message: "from bob", Username: "bob"})
	require.NoError(t, err)

	alice, err := mem.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := mem.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)

	aliceSessions, err := mem.GetChatSessionsByUser(ctx, alice.ID)
	require.NoError(t, err)
	bobSessions, err := mem.GetChatSessionsByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, aliceSessions, 1)
	require.Len(t, bobSessions, 1)
	assert.NotEqual(t, aliceSessions[0].ID, bobSessions[0].ID)
}

func TestRespondWithExistingUser(t *testing.T) {
	mem := memory.NewMemoryStore()
	_, err := mem.CreateUser(context.Background(), store.CreateUserParams{
		Username:       "alice",
		HashedPassword: "registered",
	})
	require.NoError(t, err)

	svc := NewChatService(mem, llm.NewMockCompleter("ok"))
	_, err = svc.Respond(context.Background(), models.CompletionRequest{Message: "hi", Username: "alice"})
	require.NoError(t, err)

	// The existing record must be reused, not replaced.
	user, err := mem.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "registered", user.HashedPassword)
}
