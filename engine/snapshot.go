package engine

import "github.com/lixenwraith/simon/core"

// Snapshot is the read-only view handed to the presentation layer
type Snapshot struct {
	Score       int
	Best        int
	Phase       Phase
	ActivePad   core.PadID
	InputLen    int
	SequenceLen int
	Muted       bool
	Locked      bool

	// NewBest is set on GameOver when the display policy announces a new best
	NewBest bool
	GameID  string
}

// CanReplay reports whether a Replay command would be accepted
func (s Snapshot) CanReplay() bool {
	if s.SequenceLen == 0 || s.Locked {
		return false
	}
	return s.Phase == PhaseIdle || s.Phase == PhaseInput
}

// Step is the 1-based position of the next expected press
func (s Snapshot) Step() int {
	return min(s.InputLen+1, s.SequenceLen)
}
