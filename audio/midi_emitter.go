package audio

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/lixenwraith/simon/core"
)

// MIDISender writes one message to an output port
type MIDISender func(msg gomidi.Message) error

// FrequencyToNote returns the nearest MIDI note number, A4 = 440 Hz = 69
func FrequencyToNote(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	n := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(min(max(n, 0), 127))
}

// MIDIEmitter plays tones as notes on an external synth
// NoteOn and NoteOff are timed with runtime timers against the emitter clock
type MIDIEmitter struct {
	send     MIDISender
	closer   func() error
	channel  uint8
	velocity uint8
	start    time.Time

	mu       sync.Mutex
	timers   map[*time.Timer]struct{}
	sounding map[uint8]int
	closed   bool

	sendErrors atomic.Int64
}

// NewMIDIEmitter opens the first output port whose name contains cfg.MIDIPort
func NewMIDIEmitter(cfg Config) (*MIDIEmitter, error) {
	want := strings.ToLower(cfg.MIDIPort)
	for _, port := range gomidi.GetOutPorts() {
		if want != "" && !strings.Contains(strings.ToLower(port.String()), want) {
			continue
		}
		sender, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open MIDI port %s: %w", port.String(), err)
		}
		return newMIDIEmitter(sender, port.Close, cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMIDIPort, cfg.MIDIPort)
}

func newMIDIEmitter(send MIDISender, closer func() error, cfg Config) *MIDIEmitter {
	return &MIDIEmitter{
		send:     send,
		closer:   closer,
		channel:  cfg.MIDIChannel,
		velocity: cfg.MIDIVelocity,
		start:    time.Now(),
		timers:   make(map[*time.Timer]struct{}),
		sounding: make(map[uint8]int),
	}
}

// Now returns the emitter clock, monotonic since construction
func (e *MIDIEmitter) Now() time.Duration {
	return time.Since(e.start)
}

// Emit schedules NoteOn at tone.At and NoteOff after the duration
func (e *MIDIEmitter) Emit(tone core.Tone) error {
	if tone.Muted || tone.Duration <= 0 {
		return nil
	}
	note := FrequencyToNote(tone.Frequency)
	delay := max(tone.At-e.Now(), 0)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.afterLocked(delay, func() { e.noteOnLocked(note) })
	e.afterLocked(delay+tone.Duration, func() { e.noteOffLocked(note) })
	return nil
}

// Silence cancels pending notes and releases sounding ones
func (e *MIDIEmitter) Silence() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.silenceLocked()
}

// SendErrors returns how many messages the port rejected
func (e *MIDIEmitter) SendErrors() int64 {
	return e.sendErrors.Load()
}

// Close releases sounding notes and the output port
func (e *MIDIEmitter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.silenceLocked()
	e.closed = true
	e.mu.Unlock()

	if e.closer != nil {
		return e.closer()
	}
	return nil
}

// afterLocked runs fn under the lock after d unless the timer is stopped first
func (e *MIDIEmitter) afterLocked(d time.Duration, fn func()) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, live := e.timers[t]; !live {
			return
		}
		delete(e.timers, t)
		fn()
	})
	e.timers[t] = struct{}{}
}

func (e *MIDIEmitter) silenceLocked() {
	for t := range e.timers {
		t.Stop()
	}
	clear(e.timers)
	for note, n := range e.sounding {
		for ; n > 0; n-- {
			e.write(gomidi.NoteOff(e.channel, note))
		}
	}
	clear(e.sounding)
}

func (e *MIDIEmitter) noteOnLocked(note uint8) {
	e.sounding[note]++
	e.write(gomidi.NoteOn(e.channel, note, e.velocity))
}

func (e *MIDIEmitter) noteOffLocked(note uint8) {
	if e.sounding[note] == 0 {
		return
	}
	if e.sounding[note]--; e.sounding[note] == 0 {
		delete(e.sounding, note)
	}
	e.write(gomidi.NoteOff(e.channel, note))
}

func (e *MIDIEmitter) write(msg gomidi.Message) {
	if err := e.send(msg); err != nil {
		e.sendErrors.Add(1)
	}
}
