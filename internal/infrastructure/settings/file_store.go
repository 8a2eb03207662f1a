package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the settings document as a single JSON file. Writes go
// through a temp file and rename so readers never observe a torn document.
// Concurrent writers are last-writer-wins; settings changes are rare,
// human-triggered administrative actions.
type FileStore struct {
	path string
	mu   sync.Mutex // serializes read-modify-write within this process
}

// NewFileStore creates a file-backed settings store at path, creating the
// parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("settings: create directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Get implements Store
func (s *FileStore) Get(_ context.Context) (Settings, error) {
	return s.read()
}

// Merge implements Store
func (s *FileStore) Merge(_ context.Context, patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	cur.apply(patch)
	if err := s.write(cur); err != nil {
		return Settings{}, err
	}
	return cur, nil
}

// ReplaceWarehouseMap implements Store
func (s *FileStore) ReplaceWarehouseMap(_ context.Context, m map[string]string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	cur.WarehouseMap = m
	if err := s.write(cur); err != nil {
		return Settings{}, err
	}
	return cur, nil
}

func (s *FileStore) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("settings: read %s: %w", s.path, err)
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %w", s.path, err)
	}
	return out, nil
}

func (s *FileStore) write(v Settings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settings: rename %s: %w", tmp, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
