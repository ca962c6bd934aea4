package engine

import (
	"slices"

	"github.com/lixenwraith/simon/core"
)

// State is the engine's mutable game data
// Reducers below return a new State and never alias the input slices
type State struct {
	Phase     Phase
	Sequence  []core.PadID
	Input     []core.PadID
	Score     int
	Best      int
	ActivePad core.PadID

	// Locked is set between a press verdict and its delayed transition
	Locked bool
}

// Verdict classifies a press
type Verdict int

const (
	VerdictIgnored Verdict = iota
	VerdictProgress
	VerdictRoundComplete
	VerdictMismatch
)

func (v Verdict) String() string {
	switch v {
	case VerdictProgress:
		return "progress"
	case VerdictRoundComplete:
		return "round_complete"
	case VerdictMismatch:
		return "mismatch"
	default:
		return "ignored"
	}
}

// InitialState is the Idle state with a known best score
func InitialState(best int) State {
	return State{
		Phase:     PhaseIdle,
		Best:      max(best, 0),
		ActivePad: core.NoPad,
	}
}

// NewGameState resets score and input and seeds a one-pad sequence
func NewGameState(s State, first core.PadID) State {
	return State{
		Phase:     PhasePlaying,
		Sequence:  []core.PadID{first},
		Input:     nil,
		Score:     0,
		Best:      s.Best,
		ActivePad: core.NoPad,
	}
}

// BeginPlayback enters Playing keeping sequence, input and score
func BeginPlayback(s State) State {
	s = s.clone()
	s.Phase = PhasePlaying
	s.ActivePad = core.NoPad
	s.Locked = false
	return s
}

// EnterInput opens the input phase with an empty input
func EnterInput(s State) State {
	s = s.clone()
	s.Phase = PhaseInput
	s.Input = nil
	s.ActivePad = core.NoPad
	s.Locked = false
	return s
}

// EnterGameOver closes the game
func EnterGameOver(s State) State {
	s = s.clone()
	s.Phase = PhaseGameOver
	s.ActivePad = core.NoPad
	s.Locked = false
	return s
}

// WithActivePad sets the highlighted pad
func WithActivePad(s State, pad core.PadID) State {
	s = s.clone()
	s.ActivePad = pad
	return s
}

// Advance credits a completed round and extends the sequence by next
// The state stays locked until the next playback begins
func Advance(s State, next core.PadID) State {
	s = s.clone()
	s.Score++
	s.Sequence = append(s.Sequence, next)
	s.Locked = true
	return s
}

// ApplyPress validates one press against the sequence
// draw is called once, only when the press completes the round
func ApplyPress(s State, pad core.PadID, draw func() core.PadID) (State, Verdict) {
	if !pad.Valid() || !s.Phase.AcceptsInput() || s.Locked || len(s.Input) >= len(s.Sequence) {
		return s, VerdictIgnored
	}

	s = s.clone()
	idx := len(s.Input)
	s.Input = append(s.Input, pad)

	if s.Sequence[idx] != pad {
		s.Best = max(s.Best, s.Score)
		s.Locked = true
		return s, VerdictMismatch
	}

	if len(s.Input) == len(s.Sequence) {
		return Advance(s, draw()), VerdictRoundComplete
	}

	return s, VerdictProgress
}

// IsPrefix reports whether Input is a prefix of Sequence
func (s State) IsPrefix() bool {
	if len(s.Input) > len(s.Sequence) {
		return false
	}
	return slices.Equal(s.Input, s.Sequence[:len(s.Input)])
}

func (s State) clone() State {
	s.Sequence = slices.Clone(s.Sequence)
	s.Input = slices.Clone(s.Input)
	return s
}
