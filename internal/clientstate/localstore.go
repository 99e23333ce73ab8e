package clientstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoValue is returned when a key has never been written.
var ErrNoValue = errors.New("no value stored for key")

// LocalStore is a small per-client key/value cache: one JSON document per key,
// written under a directory. It is a cache that survives restarts, not a
// source of truth.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating local store dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get unmarshals the value stored under key into v.
// Returns ErrNoValue when the key was never written.
func (s *LocalStore) Get(key string, v interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoValue
		}
		return fmt.Errorf("reading %q: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}

// Set stores v under key, replacing any previous value.
func (s *LocalStore) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}
