package tracking

import (
	"context"
	"sync"
)

// CaseStore persists case records. Implementations must return
// ErrCaseNotFound from Get and Save when the ID is unknown.
type CaseStore interface {
	// Get returns the case with the given ID.
	Get(ctx context.Context, id string) (*Case, error)

	// Save writes back a mutated case.
	Save(ctx context.Context, cs *Case) error

	// Create inserts a new case record.
	Create(ctx context.Context, cs *Case) error
}

// MemoryStore is an in-memory CaseStore used in tests and for local
// development. Stored cases are copied on the way in and out so callers
// can mutate freely.
type MemoryStore struct {
	mu    sync.RWMutex
	cases map[string]*Case
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cases: make(map[string]*Case)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.cases[id]
	if !ok {
		return nil, ErrCaseNotFound
	}
	return cs.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, cs *Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[cs.ID]; !ok {
		return ErrCaseNotFound
	}
	s.cases[cs.ID] = cs.Clone()
	return nil
}

func (s *MemoryStore) Create(_ context.Context, cs *Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[cs.ID] = cs.Clone()
	return nil
}
