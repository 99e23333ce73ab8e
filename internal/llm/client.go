// Package llm wraps the completion provider behind a Completer that never
// fails: every provider error degrades to a fixed user-readable string so the
// caller always has a usable assistant message.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"
)

// Fallback strings returned instead of provider errors. The transcript never
// shows a raw error object.
const (
	MissingKeyMessage   = "I can't respond right now because the OpenAI API key is missing or invalid. Please add a valid API key in the environment settings."
	HighDemandMessage   = "I'm experiencing high demand right now. Please try again in a moment."
	AuthIssueMessage    = "There seems to be an authentication issue with the AI service. Please provide a valid OpenAI API key."
	EmptyReplyMessage   = "I couldn't generate a response. Please try again."
	GenericErrorMessage = "Sorry, I encountered an error while processing your request. Please try again later."

	systemInstruction   = "You are a helpful, friendly AI assistant that provides concise and accurate responses. You're here to help the user with their questions and tasks."
	placeholderAPIKey   = "sk-dummy-key"
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultModel        = "gpt-4o"
	defaultTimeout      = 30 * time.Second
	completionMaxTokens = 800
	samplingTemperature = 0.7
)

// Completer produces an assistant reply for a single prompt. Implementations
// must not return errors past this boundary; failures degrade to fallback
// strings.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// ClientConfig holds configuration options for the completion client.
type ClientConfig struct {
	// APIKey for the provider. Empty or the placeholder value disables
	// network calls entirely.
	APIKey string

	// BaseURL of the provider API (default: https://api.openai.com/v1)
	BaseURL string

	// Model to request (default: gpt-4o)
	Model string

	// Timeout applied to each completion call (default: 30s)
	Timeout time.Duration
}

// Client calls the OpenAI chat completions endpoint. Each call is stateless
// from the model's perspective: a fixed system instruction plus the prompt as
// the sole user turn, no conversation history.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

var _ Completer = (*Client)(nil)

// NewClient creates a completion client, filling in defaults for zero values.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// hasCredential reports whether a usable API key is configured.
func (c *Client) hasCredential() bool {
	return c.config.APIKey != "" && c.config.APIKey != placeholderAPIKey
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one synchronous completion request. It never returns an
// error: missing credentials, rate limits, auth failures, network faults and
// empty completions all resolve to fixed fallback strings. No retries.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	if !c.hasCredential() {
		// Fail fast: no network call, no side effect.
		return MissingKeyMessage
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: samplingTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		log.Printf("ERROR [llm] Failed to marshal completion request: %v", err)
		return GenericErrorMessage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		log.Printf("ERROR [llm] Failed to create completion request: %v", err)
		return GenericErrorMessage
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR [llm] Completion request failed: %v", err)
		return GenericErrorMessage
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusTooManyRequests:
		log.Printf("WARN [llm] Provider rate limit hit (429)")
		return HighDemandMessage
	case http.StatusUnauthorized:
		log.Printf("WARN [llm] Provider authentication failure (401)")
		return AuthIssueMessage
	default:
		log.Printf("ERROR [llm] Provider returned status %d", resp.StatusCode)
		return GenericErrorMessage
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("ERROR [llm] Failed to read completion response: %v", err)
		return GenericErrorMessage
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Printf("ERROR [llm] Failed to decode completion response: %v", err)
		return GenericErrorMessage
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return EmptyReplyMessage
	}
	return parsed.Choices[0].Message.Content
}
