package store

import (
	"database/sql"
	"fmt"

	"github.com/rnwolfe/triage/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the triage database under the XDG data dir.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenPath(paths.DBFile)
}

// OpenPath opens the database at path and applies migrations.
func OpenPath(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Schema is the ordered list of idempotent DDL statements.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS workspaces (
		token TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workspace TEXT NOT NULL,
		name TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'Medium',
		effort TEXT NOT NULL DEFAULT 'Medium',
		mandays INTEGER NOT NULL DEFAULT 1,
		due_date TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_workspace ON tasks(workspace)`,
	// Key-value store for misc state (current workspace, last greeting)
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

func (db *DB) migrate() error {
	return Migrate(db.conn)
}

// Migrate applies Schema to conn. Safe to run repeatedly.
func Migrate(conn *sql.DB) error {
	for _, m := range Schema {
		if _, err := conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
