package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/simon/constant"
	"github.com/lixenwraith/simon/core"
)

// speakerOnce guards speaker.Init; the beep speaker is process-wide
var (
	speakerOnce sync.Once
	speakerErr  error
)

// ToneEmitter synthesizes tones and plays them through the system speaker
// Each tone is mixed immediately with leading silence up to its scheduled time
type ToneEmitter struct {
	cfg   Config
	mixer *beep.Mixer
	start time.Time

	// lock and unlock guard mixer access against the playback goroutine
	lock   func()
	unlock func()

	emitted atomic.Int64
	closed  atomic.Bool
}

// NewToneEmitter initializes the speaker and starts mixing
func NewToneEmitter(cfg Config) (*ToneEmitter, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(constant.AudioBufferDuration))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioDevice, speakerErr)
	}

	e := newToneEmitter(cfg, speaker.Lock, speaker.Unlock)
	speaker.Play(e.mixer)
	return e, nil
}

// newToneEmitter builds an emitter around a mixer without touching the speaker
func newToneEmitter(cfg Config, lock, unlock func()) *ToneEmitter {
	return &ToneEmitter{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		start:  time.Now(),
		lock:   lock,
		unlock: unlock,
	}
}

// Now returns the emitter clock, monotonic since construction
func (e *ToneEmitter) Now() time.Duration {
	return time.Since(e.start)
}

// Emit schedules tone on the mixer; muted tones are dropped without affecting timing
func (e *ToneEmitter) Emit(tone core.Tone) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if tone.Muted || tone.Duration <= 0 {
		return nil
	}

	s := NewScheduledTone(tone.Frequency, tone.At-e.Now(), tone.Duration, e.cfg)

	e.lock()
	e.mixer.Add(s)
	e.unlock()
	e.emitted.Add(1)
	return nil
}

// Silence drops every tone still in the mixer, including ones waiting on their lead silence
func (e *ToneEmitter) Silence() {
	e.lock()
	e.mixer.Clear()
	e.unlock()
}

// Pending returns the number of streamers still mixing
func (e *ToneEmitter) Pending() int {
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// Emitted returns the number of tones handed to the mixer
func (e *ToneEmitter) Emitted() int64 {
	return e.emitted.Load()
}

// Close silences the mixer and rejects further tones
func (e *ToneEmitter) Close() error {
	if e.closed.CompareAndSwap(false, true) {
		e.Silence()
	}
	return nil
}
