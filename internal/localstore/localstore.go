// Package localstore persists small pieces of client state to a JSON file
// in the user's config directory, filling the role browser local storage
// played for the web dashboard: the Gemini API key, the user id override,
// and the temporary-edit map all live here.
package localstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys. The names match the original dashboard's local storage
// keys so a reader of either codebase finds the same vocabulary.
const (
	KeyGeminiAPIKey = "gemini_api_key"
	KeyUserID       = "userId"
	KeyTempEdits    = "jd-matcher-temp-edits"
)

// Store is a file-backed key/value store. Every mutation is persisted
// synchronously before it returns.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// DefaultPath returns the state file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "resume-dash", "state.json"), nil
}

// Open loads the store at path. A missing or unreadable file, or corrupt
// JSON, yields an empty store: stored client state is a cache, never a
// reason to fail startup.
func Open(path string) *Store {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		log.Printf("[localstore] ignoring corrupt state file %s: %v", path, err)
		s.values = make(map[string]json.RawMessage)
	}
	return s
}

// Get decodes the value stored under key into v. It returns false when the
// key is absent or its value does not decode.
func (s *Store) Get(key string, v any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("[localstore] ignoring corrupt value for %q: %v", key, err)
		return false
	}
	return true
}

// GetString returns the string stored under key, or "" when absent.
func (s *Store) GetString(key string) string {
	var v string
	if !s.Get(key, &v) {
		return ""
	}
	return v
}

// Set stores v under key and persists the store.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.flushLocked()
}

// SetString stores a string value under key.
func (s *Store) SetString(key, value string) error {
	return s.Set(key, value)
}

// Delete removes key and persists the store. Deleting an absent key is a
// no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked writes the full map to disk via a temp file and rename so a
// crash mid-write never leaves a truncated state file.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
