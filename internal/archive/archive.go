// Package archive keeps a local history of aggregated snapshots in SQLite.
// The archive is an optional observability layer on top of aggregation; the
// published release asset remains the source of truth.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"etude/internal/daily"
)

// Store persists one row per published snapshot, keyed by release tag.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Entry is one archived snapshot.
type Entry struct {
	Tag       string
	CreatedAt time.Time
	Snapshot  daily.Snapshot
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		tag TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		body TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// Put stores a snapshot under its release tag. Re-archiving the same tag
// overwrites the previous row; snapshots are immutable once published, so
// this only matters for manual re-runs.
func (s *Store) Put(tag string, snapshot daily.Snapshot, createdAt time.Time) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		`INSERT INTO snapshots (tag, created_at, body) VALUES (?, ?, ?)
		 ON CONFLICT(tag) DO UPDATE SET created_at = excluded.created_at, body = excluded.body`,
		tag, createdAt.UTC(), string(body))
	if err != nil {
		return fmt.Errorf("failed to archive snapshot %q: %w", tag, err)
	}
	return nil
}

// Get retrieves one archived snapshot by tag.
func (s *Store) Get(tag string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry     Entry
		createdAt time.Time
		body      string
	)
	err := s.db.QueryRow(
		`SELECT tag, created_at, body FROM snapshots WHERE tag = ?`, tag).
		Scan(&entry.Tag, &createdAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read snapshot %q: %w", tag, err)
	}

	if err := json.Unmarshal([]byte(body), &entry.Snapshot); err != nil {
		return Entry{}, false, fmt.Errorf("corrupt archived snapshot %q: %w", tag, err)
	}
	entry.CreatedAt = createdAt
	return entry, true, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 30
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT tag, created_at, body FROM snapshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry Entry
			body  string
		)
		if err := rows.Scan(&entry.Tag, &entry.CreatedAt, &body); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := json.Unmarshal([]byte(body), &entry.Snapshot); err != nil {
			return nil, fmt.Errorf("corrupt archived snapshot %q: %w", entry.Tag, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
