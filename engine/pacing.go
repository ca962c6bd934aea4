package engine

import (
	"errors"
	"time"

	"github.com/lixenwraith/simon/constant"
)

// ErrInvalidPacing reports a pacing value that would break playback ordering
var ErrInvalidPacing = errors.New("invalid pacing")

// Pacing holds every playback and delay duration the engine schedules with
type Pacing struct {
	Tone          time.Duration // Sequence signal length
	Gap           time.Duration // Silence between sequence signals
	Press         time.Duration // Confirmation signal and flash for a press
	GameOverDelay time.Duration // Mismatch -> GameOver
	RoundDelay    time.Duration // Completed round -> next playback
	Settle        time.Duration // After the last signal, before input opens
	LeadIn        time.Duration // Emitter-clock offset of the first signal
	FlashTrim     time.Duration // Visual pulse ends this much before its tone
}

// DefaultPacing returns the stock timings
func DefaultPacing() Pacing {
	return Pacing{
		Tone:          constant.ToneDuration,
		Gap:           constant.ToneGap,
		Press:         constant.PressDuration,
		GameOverDelay: constant.GameOverDelay,
		RoundDelay:    constant.RoundDelay,
		Settle:        constant.PlaybackSettle,
		LeadIn:        constant.PlaybackLeadIn,
		FlashTrim:     constant.FlashTrim,
	}
}

// Validate rejects non-positive signal lengths and negative delays
func (p Pacing) Validate() error {
	if p.Tone <= 0 || p.Press <= 0 {
		return errors.Join(ErrInvalidPacing, errors.New("tone and press durations must be positive"))
	}
	for _, d := range []time.Duration{p.Gap, p.GameOverDelay, p.RoundDelay, p.Settle, p.LeadIn, p.FlashTrim} {
		if d < 0 {
			return errors.Join(ErrInvalidPacing, errors.New("delays must not be negative"))
		}
	}
	return nil
}

// Step is the offset between consecutive signal starts
func (p Pacing) Step() time.Duration {
	return p.Tone + p.Gap
}

// Offset is the start of signal i relative to playback start
func (p Pacing) Offset(i int) time.Duration {
	return time.Duration(i) * p.Step()
}

// Flash is the visual pulse length for a sequence signal
func (p Pacing) Flash() time.Duration {
	if f := p.Tone - p.FlashTrim; f > 0 {
		return f
	}
	return p.Tone
}

// PlaybackLength is the delay from playback start to the Input phase
func (p Pacing) PlaybackLength(n int) time.Duration {
	return p.Offset(n) + p.Settle
}
