// Package clientstate holds the client-side view of a conversation: the
// transcript, the active user identity and the in-flight flag, backed by a
// local cache so state survives restarts. The authoritative transcript, when
// persistence is enabled, lives server-side.
package clientstate

import (
	"aichat-backend/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cache keys. Fixed names so a restarted client finds its previous state.
const (
	messagesKey = "chat-messages"
	userKey     = "chat-user"
)

// ErrBusy is returned when a submission arrives while another is in flight.
// The container does not queue or de-duplicate; one request at a time.
var ErrBusy = errors.New("a submission is already in flight")

// ErrNoUser is returned when submitting before an identity is set.
var ErrNoUser = errors.New("no user identity set")

// UserIdentity is the active client identity.
type UserIdentity struct {
	Name    string `json:"name"`
	Initial string `json:"initial"`
}

// TranscriptMessage is a transcript entry. Pending marks a user message that
// was appended optimistically and not yet confirmed by a server response, so
// a caller can offer resend after a transport failure.
type TranscriptMessage struct {
	models.MessageResponse
	Pending bool `json:"pending,omitempty"`
}

// Container mediates between the UI and the chat endpoint. It is an explicit,
// passed-around object with its own lifecycle, not a package-level singleton.
type Container struct {
	mu         sync.Mutex
	local      *LocalStore
	endpoint   string
	httpClient *http.Client

	messages []TranscriptMessage
	user     UserIdentity
	loading  bool
}

// NewContainer builds a container pointed at the chat endpoint and reloads any
// cached transcript and identity.
func NewContainer(local *LocalStore, endpoint string) *Container {
	c := &Container{
		local:      local,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	if err := local.Get(messagesKey, &c.messages); err != nil && !errors.Is(err, ErrNoValue) {
		log.Printf("WARN [clientstate] Could not restore transcript: %v", err)
	}
	if err := local.Get(userKey, &c.user); err != nil && !errors.Is(err, ErrNoValue) {
		log.Printf("WARN [clientstate] Could not restore user identity: %v", err)
	}
	return c
}

// Messages returns a copy of the transcript in order.
func (c *Container) Messages() []TranscriptMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TranscriptMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// AddMessage appends a message to the transcript, preserving order.
func (c *Container) AddMessage(msg models.MessageResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(TranscriptMessage{MessageResponse: msg})
}

// ClearMessages resets the transcript to empty. The user identity is untouched.
func (c *Container) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.persistMessages()
}

// SetUser replaces the active identity.
func (c *Container) SetUser(u UserIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
	if err := c.local.Set(userKey, c.user); err != nil {
		log.Printf("WARN [clientstate] Could not cache user identity: %v", err)
	}
}

// User returns the active identity.
func (c *Container) User() UserIdentity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Loading reports whether a submission is in flight.
func (c *Container) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submit runs the submission protocol: optimistically append the user message,
// set loading, POST to the chat endpoint, and on response append the assistant
// message and clear loading. On transport failure loading is cleared and the
// error returned; the optimistic message stays in the transcript, still marked
// pending.
func (c *Container) Submit(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.user.Name == "" {
		c.mu.Unlock()
		return ErrNoUser
	}
	username := c.user.Name
	pendingID := uuid.New()
	c.append(TranscriptMessage{
		MessageResponse: models.MessageResponse{
			ID:        pendingID,
			Content:   text,
			Role:      models.RoleUser,
			Timestamp: time.Now(),
		},
		Pending: true,
	})
	c.loading = true
	c.mu.Unlock()

	reply, err := c.postChat(ctx, text, username)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.persistMessages()
		return err
	}

	for i := range c.messages {
		if c.messages[i].ID == pendingID {
			c.messages[i].Pending = false
			break
		}
	}
	c.append(TranscriptMessage{MessageResponse: reply})
	return nil
}

// postChat sends the completion request and decodes the response envelope.
func (c *Container) postChat(ctx context.Context, text, username string) (models.MessageResponse, error) {
	body, err := json.Marshal(models.CompletionRequest{Message: text, Username: username})
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			return models.MessageResponse{}, fmt.Errorf("chat request failed (%d): %s", resp.StatusCode, errResp.Message)
		}
		return models.MessageResponse{}, fmt.Errorf("chat request failed with status %d", resp.StatusCode)
	}

	var envelope models.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return models.MessageResponse{}, fmt.Errorf("decoding chat response: %w", err)
	}
	return envelope.Message, nil
}

// append adds to the transcript and refreshes the cache. Callers must hold mu.
func (c *Container) append(msg TranscriptMessage) {
	c.messages = append(c.messages, msg)
	c.persistMessages()
}

func (c *Container) persistMessages() {
	if err := c.local.Set(messagesKey, c.messages); err != nil {
		log.Printf("WARN [clientstate] Could not cache transcript: %v", err)
	}
}
