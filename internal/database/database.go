// Package database is the SQLite-backed snapshot cache. It keeps the last job
// list and profile fetched for each user in ~/.jobhunter/cache.db.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a snapshot cache on a SQLite database
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// runMigrations creates all necessary tables
func runMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		PRIMARY KEY (user_id, kind)
	);

	CREATE TABLE IF NOT EXISTS cached_jobs (
		user_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (user_id, job_id)
	);

	CREATE TABLE IF NOT EXISTS cached_profiles (
		user_id TEXT PRIMARY KEY,
		email TEXT,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cached_jobs_user_position ON cached_jobs(user_id, position);
	`

	_, err := db.Exec(schema)
	return err
}
