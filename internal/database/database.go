package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Journal is the local SQLite log of write actions performed by the CLI
type Journal struct {
	db *sql.DB
}

// Open creates (if needed) and opens the journal database at path
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// Open with DSN options for SQLite pragmas
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		succeeded INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		CHECK(action IN ('fill_cover_letters', 'export_letters', 'rename_cvs', 'assign_positions'))
	);

	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		page_id TEXT NOT NULL,
		job_title TEXT DEFAULT '',
		company TEXT DEFAULT '',
		status TEXT NOT NULL,
		detail TEXT DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE,
		CHECK(status IN ('ok', 'failed', 'skipped'))
	);

	CREATE INDEX IF NOT EXISTS idx_runs_action ON runs(action);
	CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id);
	CREATE INDEX IF NOT EXISTS idx_entries_page_id ON entries(page_id);
	`

	_, err := db.Exec(schema)
	return err
}
