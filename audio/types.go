package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/simon/constant"
)

// Backend identifies how tones reach the player
type Backend int

const (
	BackendBeep Backend = iota // Synthesized through the system speaker
	BackendMIDI                // Notes sent to an external MIDI output
	BackendNone                // Clock only
)

var backendNames = [...]string{"beep", "midi", "none"}

func (b Backend) String() string {
	if b < 0 || int(b) >= len(backendNames) {
		return "unknown"
	}
	return backendNames[b]
}

// ParseBackend accepts "beep", "midi" or "none"
func ParseBackend(s string) (Backend, error) {
	for i, n := range backendNames {
		if strings.EqualFold(n, s) {
			return Backend(i), nil
		}
	}
	return BackendNone, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

var waveNames = [...]string{"sine", "square", "saw", "triangle"}

func (w WaveType) String() string {
	if w < 0 || int(w) >= len(waveNames) {
		return "unknown"
	}
	return waveNames[w]
}

// ParseWave resolves a wave name
func ParseWave(s string) (WaveType, error) {
	for i, n := range waveNames {
		if strings.EqualFold(n, s) {
			return WaveType(i), nil
		}
	}
	return WaveSine, fmt.Errorf("unknown wave %q", s)
}

// Config selects and tunes the emitter backend
type Config struct {
	Backend    Backend
	Wave       WaveType
	Volume     float64 // 0.0-1.0
	SampleRate int
	Attack     time.Duration
	Release    time.Duration

	// MIDIPort is matched as a case-insensitive substring of the output port name
	// Empty selects the first output port
	MIDIPort     string
	MIDIChannel  uint8
	MIDIVelocity uint8
}

// DefaultConfig returns the stock audio settings
func DefaultConfig() Config {
	return Config{
		Backend:      BackendBeep,
		Wave:         WaveSine,
		Volume:       constant.ToneGain,
		SampleRate:   constant.AudioSampleRate,
		Attack:       constant.ToneAttack,
		Release:      constant.ToneRelease,
		MIDIChannel:  constant.MIDIChannel,
		MIDIVelocity: constant.MIDIVelocity,
	}
}

// Sentinel errors
var (
	ErrNoAudioDevice  = errors.New("no audio device available")
	ErrNoMIDIPort     = errors.New("no matching MIDI output port")
	ErrUnknownBackend = errors.New("unknown audio backend")
	ErrClosed         = errors.New("emitter closed")
)
