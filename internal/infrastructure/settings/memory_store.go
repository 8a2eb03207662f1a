package settings

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory settings store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	current Settings
}

// NewMemoryStore creates a MemoryStore seeded with the given settings
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{current: initial}
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Merge implements Store
func (s *MemoryStore) Merge(_ context.Context, patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.apply(patch)
	return s.snapshot(), nil
}

// ReplaceWarehouseMap implements Store
func (s *MemoryStore) ReplaceWarehouseMap(_ context.Context, m map[string]string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.WarehouseMap = m
	return s.snapshot(), nil
}

func (s *MemoryStore) snapshot() Settings {
	out := s.current
	if s.current.WarehouseMap != nil {
		out.WarehouseMap = make(map[string]string, len(s.current.WarehouseMap))
		for k, v := range s.current.WarehouseMap {
			out.WarehouseMap[k] = v
		}
	}
	if s.current.AutoSendPDF != nil {
		v := *s.current.AutoSendPDF
		out.AutoSendPDF = &v
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
