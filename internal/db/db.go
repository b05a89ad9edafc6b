package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	top_n INTEGER NOT NULL,
	total_pairs INTEGER NOT NULL,
	active_links INTEGER NOT NULL,
	percentage TEXT NOT NULL,
	valid_embeddings INTEGER NOT NULL,
	skipped_embeddings INTEGER NOT NULL,
	link_edges INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	source_url TEXT NOT NULL,
	related_url TEXT NOT NULL,
	rank INTEGER NOT NULL,
	similarity REAL NOT NULL,
	is_active_link INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// DB wraps a SQLite database holding exported analysis reports
type DB struct {
	conn *sql.DB
	Path string
}

// OpenDB opens (creating if needed) a SQLite export file with WAL mode and
// foreign keys enabled, and ensures the export tables exist
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one connection: SQLite has a single writer, and ":memory:" is per connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}
