// Package chunkstore keeps encrypted chunks in a local SQLite database.
//
// It is the storage collaborator of self-encryption: chunks are written by
// the content address of their ciphertext and read back by the same name.
// Every failure is reported as *Error.
package chunkstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/database"
)

// ErrChunkNotFound is the cause of an *Error returned by Get for a name that
// was never stored.
var ErrChunkNotFound = errors.New("chunk not found")

// Error describes a failed chunk store operation.
type Error struct {
	// Op is the operation that failed: "open", "get", "put", "has" or "count".
	Op string

	// Name is the hex chunk name involved, empty for store-wide operations.
	Name string

	Err error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("chunkstore: %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("chunkstore: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SQLiteStore is a chunk store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenAt creates or opens a chunk store at the given path.
func OpenAt(path string) (*SQLiteStore, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	const ddl = `
		CREATE TABLE IF NOT EXISTS chunks (
			name       BLOB    PRIMARY KEY,
			content    BLOB    NOT NULL,
			size       INTEGER NOT NULL,
			created_at TEXT    NOT NULL
		);
	`
	if err := database.Migrate(db, "chunkstore", ddl); err != nil {
		db.Close()
		return nil, &Error{Op: "open", Err: err}
	}
	return &SQLiteStore{db: db}, nil
}

// Put stores content under name. Storing the same name twice keeps the
// first copy; chunks are content addressed so both copies are equal.
func (s *SQLiteStore) Put(ctx context.Context, name data.Name, content []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (name, content, size, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING`,
		name[:], content, len(content), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return &Error{Op: "put", Name: name.String(), Err: err}
	}
	return nil
}

// Get returns the chunk stored under name. A missing chunk is reported as an
// *Error wrapping ErrChunkNotFound.
func (s *SQLiteStore) Get(ctx context.Context, name data.Name) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `SELECT content FROM chunks WHERE name = ?`, name[:]).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &Error{Op: "get", Name: name.String(), Err: ErrChunkNotFound}
	}
	if err != nil {
		return nil, &Error{Op: "get", Name: name.String(), Err: err}
	}
	return content, nil
}

// Has reports whether a chunk is stored under name.
func (s *SQLiteStore) Has(ctx context.Context, name data.Name) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE name = ?`, name[:]).Scan(&n)
	if err != nil {
		return false, &Error{Op: "has", Name: name.String(), Err: err}
	}
	return n > 0, nil
}

// Count returns the number of stored chunks.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, &Error{Op: "count", Err: err}
	}
	return n, nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
