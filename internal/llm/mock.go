package llm

import (
	"context"
	"sync"
)

// MockCompleter is a canned Completer for tests. It records every prompt so
// tests can assert on call counts (e.g. that validation failures never reach
// the provider).
type MockCompleter struct {
	mu      sync.Mutex
	Reply   string
	prompts []string
}

var _ Completer = (*MockCompleter)(nil)

func NewMockCompleter(reply string) *MockCompleter {
	return &MockCompleter{Reply: reply}
}

func (m *MockCompleter) Complete(_ context.Context, prompt string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.Reply
}

// Calls returns how many times Complete was invoked.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the recorded prompts.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
