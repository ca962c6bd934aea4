package audio

import (
	"time"

	"github.com/lixenwraith/simon/core"
)

// SilentEmitter keeps the emitter clock and drops every tone
type SilentEmitter struct {
	start time.Time
}

// NewSilentEmitter creates a clock-only emitter
func NewSilentEmitter() *SilentEmitter {
	return &SilentEmitter{start: time.Now()}
}

// Emit implements engine.Emitter
func (e *SilentEmitter) Emit(core.Tone) error { return nil }

// Now implements engine.Emitter
func (e *SilentEmitter) Now() time.Duration { return time.Since(e.start) }
