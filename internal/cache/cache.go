// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists fetched article abstracts and bodies in a local
// SQLite database so repeated questions skip the Kiwix round-trips.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Store manages the article cache database. Entries are keyed by article
// URL and expire after the configured TTL.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore opens or creates the cache database at cfg.Path, creating the
// schema and parent directory as needed.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	cfg.ApplyDefaults()
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		title TEXT,
		abstract TEXT,
		content TEXT,
		fetched_at TEXT NOT NULL
	)`)
	return err
}

// Abstract returns the cached abstract for a URL, or "" and false when
// absent or expired.
func (s *Store) Abstract(url string) (string, bool) {
	return s.lookup("abstract", url)
}

// Content returns the cached article body for a URL, or "" and false
// when absent or expired.
func (s *Store) Content(url string) (string, bool) {
	return s.lookup("content", url)
}

func (s *Store) lookup(column, url string) (string, bool) {
	var (
		value     sql.NullString
		fetchedAt string
	)
	row := s.db.QueryRow(`SELECT `+column+`, fetched_at FROM articles WHERE url = ?`, url)
	if err := row.Scan(&value, &fetchedAt); err != nil {
		return "", false
	}
	if !value.Valid || value.String == "" {
		return "", false
	}

	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || s.now().Sub(at) > s.ttl {
		return "", false
	}
	return value.String, true
}

// PutAbstract stores an abstract, preserving any cached content for the
// same URL.
func (s *Store) PutAbstract(url, title, abstract string) error {
	_, err := s.db.Exec(`INSERT INTO articles (url, title, abstract, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET title = excluded.title,
			abstract = excluded.abstract, fetched_at = excluded.fetched_at`,
		url, title, abstract, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("caching abstract for %s: %w", url, err)
	}
	return nil
}

// PutContent stores an article body, preserving any cached abstract for
// the same URL.
func (s *Store) PutContent(url, title, content string) error {
	_, err := s.db.Exec(`INSERT INTO articles (url, title, content, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET title = excluded.title,
			content = excluded.content, fetched_at = excluded.fetched_at`,
		url, title, content, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("caching content for %s: %w", url, err)
	}
	return nil
}

// Prune deletes entries older than the TTL and reports how many were
// removed.
func (s *Store) Prune() (int64, error) {
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM articles WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
