package engine

import (
	"sync"
	"time"
)

// MockTimeProvider is a hand-driven clock for deterministic playback tests
// It never moves backwards; the scheduler relies on that
type MockTimeProvider struct {
	mu    sync.RWMutex
	start time.Time
	now   time.Time
}

// NewMockTimeProvider returns a clock frozen at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{start: start, now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d; negative durations are ignored
func (m *MockTimeProvider) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// AdvanceTo jumps to t, typically a scheduler deadline
// Returns false and leaves the clock alone when t is in the past
func (m *MockTimeProvider) AdvanceTo(t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Before(m.now) {
		return false
	}
	m.now = t
	return true
}

// Elapsed is the total time advanced since construction
func (m *MockTimeProvider) Elapsed() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now.Sub(m.start)
}
