// Package oplog records CLI operations and the kind of error each one
// failed with in the local SQLite database.
package oplog

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/safecore/internal/database"
)

const ddl = `
    CREATE TABLE IF NOT EXISTS op_log (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp   TEXT    NOT NULL,
        command     TEXT    NOT NULL,
        args        TEXT    NOT NULL DEFAULT '',
        account     TEXT    NOT NULL DEFAULT '',
        data_name   TEXT    NOT NULL DEFAULT '',
        outcome     TEXT    NOT NULL DEFAULT '',
        error_kind  TEXT    NOT NULL DEFAULT '',
        detail      TEXT    NOT NULL DEFAULT '',
        duration_ms INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_op_log_timestamp ON op_log(timestamp);
    CREATE INDEX IF NOT EXISTS idx_op_log_error_kind ON op_log(error_kind);
`

const columns = `id, timestamp, command, args, account, data_name, outcome, error_kind, detail, duration_ms`

// Repository defines the persistence interface for log entries.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	ListByKind(kind string, limit int) ([]Entry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the log at the default database path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("oplog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens the log in the SQLite database at path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oplog: %w", err)
	}
	if err := database.Migrate(db, "oplog", ddl); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts entry and assigns its ID.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO op_log (timestamp, command, args, account, data_name, outcome, error_kind, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.Format(time.RFC3339Nano), entry.Command, entry.Args, entry.Account,
		entry.DataName, entry.Outcome, entry.ErrorKind, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("oplog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("oplog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent limit entries.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	rows, err := r.db.Query(`SELECT `+columns+` FROM op_log ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("oplog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByKind returns the most recent limit entries that failed with kind.
func (r *SQLiteRepository) ListByKind(kind string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`SELECT `+columns+` FROM op_log WHERE error_kind = ? ORDER BY timestamp DESC LIMIT ?`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("oplog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than olderThan.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM op_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("oplog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var ts string
		err := rows.Scan(
			&entry.ID, &ts, &entry.Command, &entry.Args, &entry.Account, &entry.DataName,
			&entry.Outcome, &entry.ErrorKind, &entry.Detail, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("oplog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
