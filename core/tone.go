package core

import "time"

// Tone is one scheduled signal handed to an emitter
// At is measured on the emitter's own monotonic clock
type Tone struct {
	Frequency float64
	At        time.Duration
	Duration  time.Duration
	Muted     bool
}

// End returns the emitter-clock time at which the tone stops
func (t Tone) End() time.Duration {
	return t.At + t.Duration
}
