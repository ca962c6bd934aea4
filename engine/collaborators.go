package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/simon/core"
)

// Emitter plays tones scheduled on its own monotonic clock
// Emit must return promptly; failures are reported but never block the game
type Emitter interface {
	Emit(tone core.Tone) error
	Now() time.Duration
}

// Silencer is implemented by emitters that can drop tones already handed to them
type Silencer interface {
	Silence()
}

// ScoreStore persists the best score; GetBest returns 0 when nothing usable is stored
// SetBest may block on disk or network; the game calls it from a writer goroutine
type ScoreStore interface {
	GetBest() int
	SetBest(best int) error
}

// PadPicker draws the next sequence pad
type PadPicker func() core.PadID

// clockEmitter is the fallback emitter: a clock and no sound
type clockEmitter struct {
	clock TimeProvider
	start time.Time
}

func newClockEmitter(clock TimeProvider) *clockEmitter {
	return &clockEmitter{clock: clock, start: clock.Now()}
}

func (e *clockEmitter) Emit(core.Tone) error { return nil }

func (e *clockEmitter) Now() time.Duration { return e.clock.Now().Sub(e.start) }

// memoryStore is the fallback store, lost on exit
type memoryStore struct {
	mu   sync.Mutex
	best int
}

func (s *memoryStore) GetBest() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

func (s *memoryStore) SetBest(best int) error {
	s.mu.Lock()
	s.best = best
	s.mu.Unlock()
	return nil
}
