package infraconfig

import (
	"context"
	"sync"
)

// MemoryStore keeps infra configuration in process. Used with
// storage.infra_store=memory and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	err    error
}

// NewMemoryStore returns an unpopulated store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Put sets one row.
func (s *MemoryStore) Put(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// Reset removes every row, returning the store to the unpopulated state.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
}

// FailWith makes every subsequent read fail with err (nil clears it).
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryStore) IsPopulated(context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return false, s.err
	}
	return populated(s.values), nil
}

func (s *MemoryStore) Load(context.Context) (*InfraConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, wrapLoad(s.err)
	}
	return Decode(s.values)
}
