package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given path. ":memory:" gives an
// in-memory store. WAL mode is enabled and the schema is migrated on open.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &StorageError{Code: CodeUnavailable, Op: "open", Err: fmt.Errorf("creating store directory: %w", err)}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Code: CodeUnavailable, Op: "open", Err: err}
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, &StorageError{Code: CodeUnavailable, Op: "open", Err: fmt.Errorf("setting WAL mode: %w", err)}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, &StorageError{Code: CodeUnavailable, Op: "open", Err: fmt.Errorf("setting busy timeout: %w", err)}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, &StorageError{Code: CodeUnavailable, Op: "open", Err: err}
	}

	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrating kv schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Code: CodeReadFailed, Op: "get " + key, Err: err}
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return &StorageError{Code: writeCode(err), Op: "set " + key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &StorageError{Code: CodeDeleteFailed, Op: "remove " + key, Err: err}
	}
	return nil
}

// writeCode maps a failed write to a storage code. SQLite reports quota
// exhaustion as "database or disk is full" (SQLITE_FULL).
func writeCode(err error) Code {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "disk is full") || strings.Contains(msg, "database is full") {
		return CodeQuotaExceeded
	}
	if strings.Contains(msg, "readonly") || strings.Contains(msg, "unable to open") {
		return CodeUnavailable
	}
	return CodeWriteFailed
}
