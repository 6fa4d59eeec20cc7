// Package history records completed runs in a local SQLite database so
// past results can be listed without re-parsing artifacts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Record is one completed run.
type Record struct {
	ID        int64     `json:"id"`
	RunName   string    `json:"run_name"`
	Mode      string    `json:"mode"`
	GistURL   string    `json:"gist_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists run records.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database and applies migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_name TEXT NOT NULL,
		mode TEXT NOT NULL,
		gist_url TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a completed run.
func (s *Store) Save(r Record) error {
	query := `INSERT INTO runs (run_name, mode, gist_url, created_at) VALUES (?, ?, ?, ?)`
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(query, r.RunName, r.Mode, r.GistURL, created)
	return err
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	query := `SELECT id, run_name, mode, gist_url, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RunName, &r.Mode, &r.GistURL, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
