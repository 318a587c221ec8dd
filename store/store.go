// Package store caches compiled artifacts in a SQLite database keyed by
// source hash.
package store

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/parley/artifact"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no artifact is cached for the requested hash.
var ErrNotFound = errors.New("artifact not found")

var log = commonlog.GetLogger("parley.store")

// Store is a SQLite-backed artifact cache.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache database at path. Parent directories are
// created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		hash    TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		data    BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debug("opened cache", "path", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores an artifact under its source hash, replacing any previous
// entry for the same hash.
func (s *Store) Put(a *artifact.Artifact) error {
	data, err := artifact.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO artifacts (hash, name, data, created) VALUES (?, ?, ?, ?)",
		a.HashHex(), a.Name, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	log.Debug("cached artifact", "name", a.Name, "hash", a.HashHex())
	return nil
}

// Get returns the artifact cached for a source hash.
func (s *Store) Get(hash [32]byte) (*artifact.Artifact, error) {
	key := hex.EncodeToString(hash[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow("SELECT data FROM artifacts WHERE hash = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying artifact: %w", err)
	}

	a, err := artifact.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Names returns the distinct names of cached artifacts, sorted.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT DISTINCT name FROM artifacts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
