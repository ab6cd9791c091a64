package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// FileStore keeps each storage slot as one JSON file under its directory.
// It is both a standalone backend and the fallback when SQLite is
// unavailable.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir (default ~/.nbai/storage).
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = filepath.Join(userHome(), ".nbai", "storage")
	}
	return &FileStore{dir: dir}
}

// Get implements ports.KeyValueStore.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set implements ports.KeyValueStore.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(f.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(f.pathFor(key), value, 0o644)
}

// Delete implements ports.KeyValueStore.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the backing directory path.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) pathFor(key string) string {
	// Keys are dotted identifiers; flatten for the filesystem.
	return filepath.Join(f.dir, strings.ReplaceAll(key, string(filepath.Separator), "_")+".json")
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.KeyValueStore = (*FileStore)(nil)
