package clientstate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aichat-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, endpoint string) *Container {
	t.Helper()
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewContainer(local, endpoint)
}

// chatStub answers POST /api/chat the way the backend does.
func chatStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.CompletionResponse{
			Message: models.MessageResponse{
				ID:        uuid.New(),
				Content:   reply,
				Role:      models.RoleAssistant,
				Timestamp: time.Now(),
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitAppendsBothSides(t *testing.T) {
	srv := chatStub(t, "Hi there!")
	c := newTestContainer(t, srv.URL)
	c.SetUser(UserIdentity{Name: "alice", Initial: "A"})

	require.NoError(t, c.Submit(context.Background(), "Hello"))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.False(t, msgs[0].Pending, "confirmed after a successful round trip")
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hi there!", msgs[1].Content)
	assert.False(t, c.Loading())
}

func TestSubmitWithoutUser(t *testing.T) {
	srv := chatStub(t, "unused")
	c := newTestContainer(t, srv.URL)

	assert.ErrorIs(t, c.Submit(context.Background(), "Hello"), ErrNoUser)
	assert.Empty(t, c.Messages())
}

func TestSubmitFailureKeepsOptimisticMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"An unexpected error occurred"}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestContainer(t, srv.URL)
	c.SetUser(UserIdentity{Name: "alice", Initial: "A"})

	err := c.Submit(context.Background(), "Hello")
	require.Error(t, err)

	// The optimistic user message stays, unconfirmed, and loading is cleared.
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.True(t, msgs[0].Pending)
	assert.False(t, c.Loading())
}

func TestClearMessagesLeavesUser(t *testing.T) {
	srv := chatStub(t, "Hi there!")
	c := newTestContainer(t, srv.URL)
	c.SetUser(UserIdentity{Name: "alice", Initial: "A"})
	require.NoError(t, c.Submit(context.Background(), "Hello"))
	require.NotEmpty(t, c.Messages())

	c.ClearMessages()

	assert.Empty(t, c.Messages())
	assert.Equal(t, "alice", c.User().Name)
}

func TestStateSurvivesReload(t *testing.T) {
	srv := chatStub(t, "Hi there!")
	dir := t.TempDir()

	local, err := NewLocalStore(dir)
	require.NoError(t, err)
	c := NewContainer(local, srv.URL)
	c.SetUser(UserIdentity{Name: "alice", Initial: "A"})
	require.NoError(t, c.Submit(context.Background(), "Hello"))

	// A new container over the same directory sees the cached state.
	local2, err := NewLocalStore(dir)
	require.NoError(t, err)
	reloaded := NewContainer(local2, srv.URL)

	assert.Equal(t, "alice", reloaded.User().Name)
	msgs := reloaded.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, "Hi there!", msgs[1].Content)
}

func TestAddAndClearDirectly(t *testing.T) {
	c := newTestContainer(t, "http://unused")

	c.AddMessage(models.MessageResponse{
		ID:        uuid.New(),
		Content:   "manual",
		Role:      models.RoleUser,
		Timestamp: time.Now(),
	})
	require.Len(t, c.Messages(), 1)

	c.ClearMessages()
	assert.Empty(t, c.Messages())
}

func TestLocalStoreMissingKey(t *testing.T) {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var v []TranscriptMessage
	assert.ErrorIs(t, local.Get("chat-messages", &v), ErrNoValue)
}
