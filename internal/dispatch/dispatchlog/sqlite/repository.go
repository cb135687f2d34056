// Package sqlite provides a SQLite-backed implementation of
// dispatchlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — the dispatch goroutine writes while an operator query may be
// reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mealgate/internal/dispatch/dispatchlog"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable event in a dispatch
// attempt's lifecycle.
const schema = `
CREATE TABLE IF NOT EXISTS dispatch_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Gateway-assigned order identifier. Not UNIQUE because each attempt
    -- writes at least two rows (STARTED plus the outcome).
    order_id        TEXT        NOT NULL,

    -- Attempt outcome at the time this row was written.
    status          TEXT        NOT NULL,

    -- JSON order payload. Written once on STARTED, NULL after.
    payload         TEXT,

    -- Failure detail on FAILED rows.
    error_message   TEXT        NOT NULL DEFAULT '',

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id        TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars).
    span_id         TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dispatch_logs_order_id ON dispatch_logs(order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_dispatch_logs_trace_id ON dispatch_logs(trace_id);
`

// Repository is the SQLite implementation of dispatchlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/dispatch.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure
	// connection state. busy_timeout waits for locks instead of failing
	// immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new dispatch log entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *dispatchlog.Entry) error {
	const q = `
		INSERT INTO dispatch_logs
			(order_id, status, payload, error_message, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Status),
		nullableString(entry.Payload),
		entry.ErrorMessage,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save dispatch log for %q: %w", entry.OrderID, err)
	}
	return nil
}

// GetLatest returns the most recent log entry for a given order ID.
func (r *Repository) GetLatest(ctx context.Context, orderID string) (*dispatchlog.Entry, error) {
	const q = `
		SELECT order_id, status, COALESCE(payload,''), error_message,
		       trace_id, span_id, created_at
		FROM   dispatch_logs
		WHERE  order_id = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, orderID)

	var entry dispatchlog.Entry
	var createdAt string
	err := row.Scan(
		&entry.OrderID,
		&entry.Status,
		&entry.Payload,
		&entry.ErrorMessage,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: order %q not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", orderID, err)
	}

	// SQLite has no native datetime type; created_at is RFC3339 TEXT.
	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", createdAt, err)
	}

	return &entry, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
