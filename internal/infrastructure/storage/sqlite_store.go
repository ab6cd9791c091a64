// Package storage provides the key-value adapters behind ports.KeyValueStore.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// SQLiteStore persists the storage slots in a single-table SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex

	fallback *FileStore
}

// NewSQLiteStore creates (or opens) <dir>/notebook.db. When the database
// cannot be opened the store degrades to the file adapter under the same
// directory, so storage failures never stop the engine.
func NewSQLiteStore(dir string) *SQLiteStore {
	if dir == "" {
		dir = filepath.Join(userHome(), ".nbai")
	}
	path := filepath.Join(dir, "notebook.db")
	_ = os.MkdirAll(dir, domain.DirectoryPermissions)

	store := &SQLiteStore{path: path}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		store.fallback = NewFileStore(filepath.Join(dir, "storage"))
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		store.db = nil
		store.fallback = NewFileStore(filepath.Join(dir, "storage"))
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT
	);`)
	return err
}

// Get implements ports.KeyValueStore.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	if s.db == nil {
		return s.fallback.Get(key)
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Set implements ports.KeyValueStore.
func (s *SQLiteStore) Set(key string, value []byte) error {
	if s.db == nil {
		return s.fallback.Set(key, value)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(value),
	)
	return err
}

// Delete implements ports.KeyValueStore.
func (s *SQLiteStore) Delete(key string) error {
	if s.db == nil {
		return s.fallback.Delete(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ ports.KeyValueStore = (*SQLiteStore)(nil)
