// Package storage persists bookmark snapshots and preferences.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/store"
)

var log = logging.GetLogger("STORAGE")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	Load() (*store.Snapshot, error)
	Save(snap *store.Snapshot) error
	Path() string
	Close() error
}

// ChangeReporter is implemented by backends that can tell whether the
// stored tree differs from the one this process last loaded or saved.
type ChangeReporter interface {
	Changed() (bool, error)
}

var _ ChangeReporter = (*SQLiteStorage)(nil)

// Open opens the backend by name at path.
func Open(backend, path string) (Storage, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStorage(path)
	case BackendJSON:
		return NewJSONStorage(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *JSONStorage) Close() error {
	return nil
}

// Load reads the snapshot from the JSON file.
// Returns an empty snapshot if the file doesn't exist.
func (s *JSONStorage) Load() (*store.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &store.Snapshot{Version: store.SnapshotVersion}, nil
		}
		return nil, err
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if snap.Version > store.SnapshotVersion {
		log.Warn("snapshot written by a newer version", "version", snap.Version)
	}
	return &snap, nil
}

// Save writes the snapshot to the JSON file.
// The file is replaced atomically so watchers never see a partial write.
func (s *JSONStorage) Save(snap *store.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".bookmarks-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
