package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"deaddrop/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (exchange_keys, messages, retrieval indexes)
const currentSchemaVersion = 1

// Store provides durable storage for relay records.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db  *sql.DB
	ids MessageIDGenerator

	// now is the clock used for created_at assignment. Overridable in
	// tests; values are still clamped per partition to stay monotonic.
	now func() time.Time

	mu         sync.RWMutex
	partitions map[record.Identity]*partition
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// Pragmas are passed in the DSN rather than executed after connect so they
// apply to every pooled connection, not just the one that happens to run
// the PRAGMA statement. This function is idempotent.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000",
		url.PathEscape(path),
	)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A small pool: reads run concurrently on WAL snapshots, writes
	// funnel through SQLite's single writer with the busy timeout above.
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{
		db:         db,
		ids:        UUIDGenerator{},
		now:        time.Now,
		partitions: make(map[record.Identity]*partition),
	}, nil
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	// No incremental migrations yet; version 1 is the initial schema.

	if version < currentSchemaVersion {
		stmt := fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
