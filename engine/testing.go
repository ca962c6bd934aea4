package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/lixenwraith/simon/core"
)

// ErrEmitterDown is returned by a failing RecordingEmitter
var ErrEmitterDown = errors.New("emitter down")

// RecordingEmitter is a test emitter that keeps every tone it receives
// Its clock is the engine clock measured from construction
type RecordingEmitter struct {
	mu       sync.Mutex
	clock    TimeProvider
	start    time.Time
	tones    []core.Tone
	silenced int

	// Fail makes Emit return ErrEmitterDown after recording the attempt
	Fail bool
}

// NewRecordingEmitter creates an emitter reading time from clock
func NewRecordingEmitter(clock TimeProvider) *RecordingEmitter {
	return &RecordingEmitter{clock: clock, start: clock.Now()}
}

// Emit records the tone
func (e *RecordingEmitter) Emit(tone core.Tone) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tones = append(e.tones, tone)
	if e.Fail {
		return ErrEmitterDown
	}
	return nil
}

// Now returns time since construction
func (e *RecordingEmitter) Now() time.Duration {
	return e.clock.Now().Sub(e.start)
}

// Silence counts sweeps
func (e *RecordingEmitter) Silence() {
	e.mu.Lock()
	e.silenced++
	e.mu.Unlock()
}

// Tones returns a copy of the recorded tones
func (e *RecordingEmitter) Tones() []core.Tone {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Tone, len(e.tones))
	copy(out, e.tones)
	return out
}

// Silenced returns how many times Silence was called
func (e *RecordingEmitter) Silenced() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.silenced
}

// Reset forgets recorded tones
func (e *RecordingEmitter) Reset() {
	e.mu.Lock()
	e.tones = nil
	e.mu.Unlock()
}
