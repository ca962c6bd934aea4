// Package score persists the single best-score scalar.
// Reads never fail: absent or unusable values read as 0.
package score

import (
	"errors"
	"sync"
)

// Store reads and writes the best score
type Store interface {
	GetBest() int
	SetBest(best int) error
}

var (
	ErrInvalidScore   = errors.New("invalid score")
	ErrUnknownBackend = errors.New("unknown score backend")
)

// MemoryStore keeps the best score for the process lifetime
type MemoryStore struct {
	mu   sync.Mutex
	best int
}

// NewMemoryStore creates a store seeded with best
func NewMemoryStore(best int) *MemoryStore {
	return &MemoryStore{best: max(best, 0)}
}

// GetBest implements Store
func (s *MemoryStore) GetBest() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// SetBest implements Store
func (s *MemoryStore) SetBest(best int) error {
	if best < 0 {
		return ErrInvalidScore
	}
	s.mu.Lock()
	s.best = best
	s.mu.Unlock()
	return nil
}
