package engine

import (
	"slices"
	"testing"

	"github.com/lixenwraith/simon/core"
)

func inputState(seq ...core.PadID) State {
	s := NewGameState(InitialState(0), seq[0])
	s.Sequence = slices.Clone(seq)
	s.Score = len(seq) - 1
	return EnterInput(s)
}

func drawPanics() core.PadID {
	panic("draw called on a press that does not complete the round")
}

// TestNewGameState verifies a fresh game keeps only the best score
func TestNewGameState(t *testing.T) {
	prev := inputState(1, 2, 3)
	prev.Best = 7

	s := NewGameState(prev, 2)
	if s.Phase != PhasePlaying || s.Score != 0 || s.Best != 7 {
		t.Errorf("Expected Playing/0/7, got %v/%d/%d", s.Phase, s.Score, s.Best)
	}
	if !slices.Equal(s.Sequence, []core.PadID{2}) || len(s.Input) != 0 {
		t.Errorf("Expected sequence [2] and empty input, got %v %v", s.Sequence, s.Input)
	}
}

// TestApplyPressVerdicts covers every press outcome
func TestApplyPressVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		pad     core.PadID
		verdict Verdict
	}{
		{"out of range low", inputState(1), -1, VerdictIgnored},
		{"out of range high", inputState(1), core.PadCount, VerdictIgnored},
		{"not input phase", BeginPlayback(inputState(1)), 1, VerdictIgnored},
		{"locked", func() State { s := inputState(1); s.Locked = true; return s }(), 1, VerdictIgnored},
		{"partial match", inputState(1, 3), 1, VerdictProgress},
		{"mismatch", inputState(1, 3), 0, VerdictMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v := ApplyPress(tt.state, tt.pad, drawPanics)
			if v != tt.verdict {
				t.Errorf("Expected %v, got %v", tt.verdict, v)
			}
		})
	}
}

// TestApplyPressRoundComplete verifies score, sequence growth and lock
func TestApplyPressRoundComplete(t *testing.T) {
	s := inputState(2)
	next, v := ApplyPress(s, 2, func() core.PadID { return 0 })

	if v != VerdictRoundComplete {
		t.Fatalf("Expected round complete, got %v", v)
	}
	if next.Score != 1 || !slices.Equal(next.Sequence, []core.PadID{2, 0}) {
		t.Errorf("Expected score 1 and [2 0], got %d %v", next.Score, next.Sequence)
	}
	if !next.Locked {
		t.Error("Expected state locked until next playback")
	}
	if len(next.Sequence) != next.Score+1 {
		t.Errorf("Expected len(sequence) == score+1, got %d vs %d", len(next.Sequence), next.Score)
	}
	if len(s.Sequence) != 1 {
		t.Error("Expected input state untouched")
	}
}

// TestApplyPressMismatchRaisesBest verifies best follows max(best, score)
func TestApplyPressMismatchRaisesBest(t *testing.T) {
	s := inputState(1, 3)
	s.Best = 0
	next, v := ApplyPress(s, 0, drawPanics)
	if v != VerdictMismatch || next.Best != 1 || !next.Locked {
		t.Errorf("Expected mismatch with best 1 locked, got %v best=%d locked=%v", v, next.Best, next.Locked)
	}

	s.Best = 4
	next, _ = ApplyPress(s, 0, drawPanics)
	if next.Best != 4 {
		t.Errorf("Expected best to stay 4, got %d", next.Best)
	}
}

// TestInputStaysPrefix verifies input remains a prefix of the sequence until a verdict
func TestInputStaysPrefix(t *testing.T) {
	s := inputState(0, 1, 2, 3)
	for _, pad := range []core.PadID{0, 1, 2} {
		var v Verdict
		s, v = ApplyPress(s, pad, drawPanics)
		if v != VerdictProgress {
			t.Fatalf("Expected progress on %d, got %v", pad, v)
		}
		if !s.IsPrefix() {
			t.Fatalf("Expected prefix after %v", s.Input)
		}
	}
}

// TestEnterInputClearsInput verifies each input phase starts empty
func TestEnterInputClearsInput(t *testing.T) {
	s := inputState(0, 1)
	s, _ = ApplyPress(s, 0, drawPanics)
	s = EnterInput(BeginPlayback(s))
	if len(s.Input) != 0 || s.Phase != PhaseInput {
		t.Errorf("Expected empty input in Input phase, got %v %v", s.Input, s.Phase)
	}
}

// TestPolicyIsNewBest covers both display policies
func TestPolicyIsNewBest(t *testing.T) {
	tests := []struct {
		policy     NewBestPolicy
		score, old int
		want       bool
	}{
		{NewBestOnTie, 3, 3, true},
		{NewBestOnTie, 2, 3, false},
		{NewBestOnTie, 0, 0, false},
		{NewBestStrict, 3, 3, false},
		{NewBestStrict, 4, 3, true},
		{NewBestStrict, 0, 0, false},
	}
	for _, tt := range tests {
		if got := tt.policy.IsNewBest(tt.score, tt.old); got != tt.want {
			t.Errorf("%v IsNewBest(%d, %d): expected %v, got %v", tt.policy, tt.score, tt.old, tt.want, got)
		}
	}

	if _, err := ParseNewBestPolicy("sometimes"); err == nil {
		t.Error("Expected error for unknown policy")
	}
	if p, _ := ParseNewBestPolicy("strict"); p != NewBestStrict {
		t.Errorf("Expected strict, got %v", p)
	}
}

// TestPacing verifies offsets, flash trim and validation
func TestPacing(t *testing.T) {
	p := DefaultPacing()
	if got := p.Offset(2); got != 2*(p.Tone+p.Gap) {
		t.Errorf("Expected offset %v, got %v", 2*(p.Tone+p.Gap), got)
	}
	if got := p.Flash(); got != p.Tone-p.FlashTrim {
		t.Errorf("Expected flash %v, got %v", p.Tone-p.FlashTrim, got)
	}
	if got := p.PlaybackLength(3); got != p.Offset(3)+p.Settle {
		t.Errorf("Expected playback length %v, got %v", p.Offset(3)+p.Settle, got)
	}

	bad := p
	bad.Tone = 0
	if err := bad.Validate(); err == nil {
		t.Error("Expected zero tone to be rejected")
	}
	bad = p
	bad.Gap = -1
	if err := bad.Validate(); err == nil {
		t.Error("Expected negative gap to be rejected")
	}
}

// TestPhaseNames verifies names round-trip
func TestPhaseNames(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhasePlaying, PhaseInput, PhaseGameOver} {
		got, ok := ParsePhase(p.String())
		if !ok || got != p {
			t.Errorf("Expected %v, got %v (ok=%v)", p, got, ok)
		}
	}
	if _, ok := ParsePhase("paused"); ok {
		t.Error("Expected unknown phase to fail")
	}
}

// TestPickers verifies deterministic pickers stay in range
func TestPickers(t *testing.T) {
	a, b := RandomPicker(42), RandomPicker(42)
	for i := 0; i < 100; i++ {
		x, y := a(), b()
		if x != y {
			t.Fatalf("Expected same seed to draw same pads, got %d and %d", x, y)
		}
		if !x.Valid() {
			t.Fatalf("Expected valid pad, got %d", x)
		}
	}

	seq := SequencePicker(3, 1)
	got := []core.PadID{seq(), seq(), seq()}
	if !slices.Equal(got, []core.PadID{3, 1, 3}) {
		t.Errorf("Expected [3 1 3], got %v", got)
	}
}
