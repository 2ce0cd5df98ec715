package store

import (
	"sync"

	"github.com/JZhaGuo/trafico/core/history"
	"github.com/JZhaGuo/trafico/core/model"
)

// MemoryStore keeps the history in memory. It backs tests and short-lived
// one-shot commands that load an existing file through a CSVStore instead.
type MemoryStore struct {
	mu   sync.Mutex
	hist *history.History
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hist: history.New()}
}

// Load returns a detached copy of the stored history.
func (s *MemoryStore) Load() (*history.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.New(s.hist.Snapshot()...), nil
}

// Append adds observations to the store.
func (s *MemoryStore) Append(obs []model.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Append(obs...)
	return nil
}

// Persist replaces the stored history.
func (s *MemoryStore) Persist(h *history.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist = history.New(h.Snapshot()...)
	return nil
}
