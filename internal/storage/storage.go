// Package storage persists the application snapshot as an opaque
// key-value map, the way the hosting platform's local storage does.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage keys for the persisted state slices.
const (
	KeyAccounts = "accounts"
	KeyTags     = "tags"
	KeyOrders   = "tag_orders"
	KeyFilter   = "filter_tag"
	KeyTheme    = "theme"
)

// Error wraps a failed storage read or write. Actions abort on it and
// leave the in-memory state at the last successful write.
type Error struct {
	Op  string // "load" or "save"
	Key string // offending key when known
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Storage is the key-value persistence interface. Missing keys are
// simply absent from the returned map.
type Storage interface {
	Load(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	Save(ctx context.Context, values map[string]json.RawMessage) error
}

// JSONStorage implements Storage as a single flat JSON object file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

func (s *JSONStorage) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string]json.RawMessage{}
	}
	return all, nil
}

// Load reads the requested keys from the JSON file. A missing file
// yields an empty map.
func (s *JSONStorage) Load(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if v, ok := all[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

// Save merges the given values into the file and writes it back.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(_ context.Context, values map[string]json.RawMessage) error {
	all, err := s.readAll()
	if err != nil {
		return &Error{Op: "save", Err: err}
	}
	for key, v := range values {
		all[key] = v
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &Error{Op: "save", Err: err}
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return &Error{Op: "save", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &Error{Op: "save", Err: err}
	}
	return nil
}

// Open opens the appropriate storage backend. Prefers SQLite if the
// database file exists, otherwise falls back to the JSON file.
func Open() (Storage, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	jsonPath, err := DefaultJSONPath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}

// DefaultJSONPath returns the default JSON path: ~/.config/tokswap/tokswap.json
func DefaultJSONPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tokswap", "tokswap.json"), nil
}

// DefaultSQLitePath returns the default database path: ~/.config/tokswap/tokswap.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tokswap", "tokswap.db"), nil
}
