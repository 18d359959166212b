package kv

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Drivers accepted by OpenSQL: "sqlite3" is the cgo driver,
// "sqlite" the pure Go one.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

// SQL stores blobs in a single-table SQLite database
type SQL struct {
	db *sql.DB
}

// OpenSQL opens (or creates) the database at path with the given driver
func OpenSQL(driver, path string) (*SQL, error) {
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("unknown sqlite driver %q (valid: %s, %s)", driver, DriverCGO, DriverPureGo)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQL{db: db}, nil
}

// Get returns the value stored under key
func (s *SQL) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the value stored under key
func (s *SQL) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQL) Close() error {
	return s.db.Close()
}
