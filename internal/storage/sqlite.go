package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage as a key-value table in a SQLite
// database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (creating if needed) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, &Error{Op: "load", Err: err}
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &Error{Op: "load", Err: err}
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		schema := `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY NOT NULL,
				value TEXT NOT NULL
			);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`
		if _, err := s.db.Exec(schema); err != nil {
			return err
		}
	}

	return nil
}

// Load reads the requested keys. Missing keys are absent from the map.
func (s *SQLiteStorage) Load(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM kv WHERE key IN ("+placeholders+")", args...)
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &Error{Op: "load", Key: key, Err: err}
		}
		out[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	return out, nil
}

// Save upserts the given values in one transaction - all or nothing.
func (s *SQLiteStorage) Save(ctx context.Context, values map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Op: "save", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return &Error{Op: "save", Err: err}
	}
	defer stmt.Close()

	for key, v := range values {
		if _, err := stmt.ExecContext(ctx, key, string(v)); err != nil {
			return &Error{Op: "save", Key: key, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &Error{Op: "save", Err: err}
	}
	return nil
}
