package engine

import (
	"testing"
	"time"
)

func fastPacing() Pacing {
	return Pacing{
		Tone:          4 * time.Millisecond,
		Gap:           2 * time.Millisecond,
		Press:         2 * time.Millisecond,
		GameOverDelay: 3 * time.Millisecond,
		RoundDelay:    5 * time.Millisecond,
		Settle:        2 * time.Millisecond,
		LeadIn:        time.Millisecond,
		FlashTrim:     time.Millisecond,
	}
}

// waitFor reads snapshots until pred holds or the deadline passes
func waitFor(t *testing.T, r *Runner, what string, pred func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if s := r.Latest(); pred(s) {
			return s
		}
		select {
		case s := <-r.Snapshots():
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %s, last %+v", what, r.Latest())
		}
	}
}

// TestRunnerPlaysRounds drives a game through the runner goroutine
func TestRunnerPlaysRounds(t *testing.T) {
	g, err := New(Options{Pacing: fastPacing(), Picker: SequencePicker(2, 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := NewRunner(g)
	r.Start()
	defer r.Stop()

	if !r.Submit(Command{Kind: CmdStart}) {
		t.Fatal("Expected start to be queued")
	}
	waitFor(t, r, "input", func(s Snapshot) bool { return s.Phase == PhaseInput && !s.Locked })

	r.Submit(Command{Kind: CmdPress, Pad: 2})
	waitFor(t, r, "round two input", func(s Snapshot) bool {
		return s.Phase == PhaseInput && s.Score == 1 && !s.Locked
	})

	r.Submit(Command{Kind: CmdToggleMute})
	waitFor(t, r, "mute", func(s Snapshot) bool { return s.Muted })

	r.Submit(Command{Kind: CmdPress, Pad: 3})
	s := waitFor(t, r, "game over", func(s Snapshot) bool { return s.Phase == PhaseGameOver })
	if s.Best != 1 || !s.NewBest {
		t.Errorf("Expected best 1 announced, got %+v", s)
	}
}

// TestRunnerStopIsIdempotent verifies Stop twice and Submit after Stop
func TestRunnerStopIsIdempotent(t *testing.T) {
	g, err := New(Options{Pacing: fastPacing()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := NewRunner(g)
	if r.Submit(Command{Kind: CmdStart}) {
		t.Error("Expected submit before Start to be rejected")
	}
	r.Start()
	r.Stop()
	r.Stop()
	if r.Submit(Command{Kind: CmdStart}) {
		t.Error("Expected submit after Stop to be rejected")
	}
}
