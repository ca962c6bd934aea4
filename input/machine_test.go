package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/engine"
)

// fixedPointer reports pad 2 at (5,5) and nothing elsewhere
type fixedPointer struct{}

func (fixedPointer) IntentAt(x, y int) (Intent, bool) {
	if x == 5 && y == 5 {
		return Intent{Type: IntentPad, Pad: 2}, true
	}
	return Intent{}, false
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// TestKeyBindings verifies every default binding
func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Intent
	}{
		{"1", runeKey('1'), Intent{Type: IntentPad, Pad: 0}},
		{"2", runeKey('2'), Intent{Type: IntentPad, Pad: 1}},
		{"3", runeKey('3'), Intent{Type: IntentPad, Pad: 2}},
		{"4", runeKey('4'), Intent{Type: IntentPad, Pad: 3}},
		{"q", runeKey('q'), Intent{Type: IntentPad, Pad: 0}},
		{"W upper", runeKey('W'), Intent{Type: IntentPad, Pad: 1}},
		{"a", runeKey('a'), Intent{Type: IntentPad, Pad: 2}},
		{"s", runeKey('s'), Intent{Type: IntentPad, Pad: 3}},
		{"space", runeKey(' '), Intent{Type: IntentStart}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), Intent{Type: IntentStart}},
		{"r", runeKey('r'), Intent{Type: IntentReplay}},
		{"m", runeKey('m'), Intent{Type: IntentToggleMute}},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Intent{Type: IntentQuit}},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), Intent{Type: IntentQuit}},
	}

	m := NewMachine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Process(tt.ev)
			if got == nil {
				t.Fatalf("Expected %+v, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

// TestUnboundKey verifies unknown keys produce no intent
func TestUnboundKey(t *testing.T) {
	m := NewMachine(nil)
	if got := m.Process(runeKey('z')); got != nil {
		t.Errorf("Expected nil for unbound key, got %+v", *got)
	}
}

// TestResize verifies resize events surface
func TestResize(t *testing.T) {
	m := NewMachine(nil)
	got := m.Process(tcell.NewEventResize(80, 24))
	if got == nil || got.Type != IntentResize {
		t.Errorf("Expected resize intent, got %v", got)
	}
}

// TestMouseClickEdge verifies a held button fires once, on the press edge
func TestMouseClickEdge(t *testing.T) {
	m := NewMachine(fixedPointer{})

	got := m.Process(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone))
	if got == nil || got.Type != IntentPad || got.Pad != 2 {
		t.Fatalf("Expected pad 2 intent on click, got %v", got)
	}

	if got := m.Process(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone)); got != nil {
		t.Errorf("Expected no intent while button is held, got %+v", *got)
	}

	m.Process(tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone))
	if got := m.Process(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone)); got == nil {
		t.Error("Expected intent after release and press")
	}
}

// TestMouseMiss verifies clicks outside any target are ignored
func TestMouseMiss(t *testing.T) {
	m := NewMachine(fixedPointer{})
	if got := m.Process(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)); got != nil {
		t.Errorf("Expected nil for miss, got %+v", *got)
	}

	m = NewMachine(nil)
	if got := m.Process(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone)); got != nil {
		t.Errorf("Expected nil without pointer, got %+v", *got)
	}
}

// TestIntentCommand verifies conversion to engine commands
func TestIntentCommand(t *testing.T) {
	tests := []struct {
		in   Intent
		want engine.Command
		ok   bool
	}{
		{Intent{Type: IntentStart}, engine.Command{Kind: engine.CmdStart}, true},
		{Intent{Type: IntentReplay}, engine.Command{Kind: engine.CmdReplay}, true},
		{Intent{Type: IntentToggleMute}, engine.Command{Kind: engine.CmdToggleMute}, true},
		{Intent{Type: IntentPad, Pad: 3}, engine.Command{Kind: engine.CmdPress, Pad: 3}, true},
		{Intent{Type: IntentPad, Pad: core.NoPad}, engine.Command{}, false},
		{Intent{Type: IntentQuit}, engine.Command{}, false},
		{Intent{Type: IntentResize}, engine.Command{}, false},
	}

	for _, tt := range tests {
		got, ok := tt.in.Command()
		if ok != tt.ok || got != tt.want {
			t.Errorf("Intent %+v: expected (%+v, %v), got (%+v, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}
