package store

import (
	"context"
	"sort"
	"sync"

	"github.com/gorgonia/arbiter"
)

// MemoryStore keeps encoded records, so a loaded space never aliases the
// saved one.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string][]byte)
	}
	return nil
}

func (s *MemoryStore) SaveSpace(_ context.Context, name string, space *arbiter.GlobalPoolingSpace) error {
	data, err := encodeRecord(name, space)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return ErrNotInitialized
	}
	s.records[name] = data
	return nil
}

func (s *MemoryStore) GetSpace(_ context.Context, name string) (*arbiter.GlobalPoolingSpace, bool, error) {
	if name == "" {
		return nil, false, ErrEmptyName
	}

	s.mu.RLock()
	if s.records == nil {
		s.mu.RUnlock()
		return nil, false, ErrNotInitialized
	}
	data, ok := s.records[name]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	space, err := decodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return space, true, nil
}

func (s *MemoryStore) ListSpaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return nil, ErrNotInitialized
	}

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) DeleteSpace(_ context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return ErrNotInitialized
	}
	delete(s.records, name)
	return nil
}
