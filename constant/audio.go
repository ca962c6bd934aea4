package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Tone envelope, shared by every pad signal
const (
	ToneAttack  = 20 * time.Millisecond
	ToneRelease = 20 * time.Millisecond

	// ToneGain matches a 0.5 peak
	ToneGain = 0.5
)

// MIDI output
const (
	MIDIChannel  = 0
	MIDIVelocity = 100
)
