package input

import (
	"github.com/gdamore/tcell/v2"
)

// Pointer resolves screen coordinates to the intent of whatever is drawn there
type Pointer interface {
	IntentAt(x, y int) (Intent, bool)
}

// Machine parses tcell events into semantic intents
type Machine struct {
	keyTable *KeyTable
	pointer  Pointer

	// Buttons held at the previous mouse event; a click fires on the press edge only
	buttons tcell.ButtonMask
}

// NewMachine creates a machine with the default key table
// pointer may be nil to ignore the mouse
func NewMachine(pointer Pointer) *Machine {
	return &Machine{
		keyTable: DefaultKeyTable(),
		pointer:  pointer,
	}
}

// SetPointer replaces the hit tester, e.g. after a layout change
func (m *Machine) SetPointer(p Pointer) {
	m.pointer = p
}

// Process parses a terminal event and returns an Intent
// Returns nil for events with no meaning
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(e)
	case *tcell.EventMouse:
		return m.processMouse(e)
	case *tcell.EventError:
		return &Intent{Type: IntentQuit}
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	entry, ok := m.keyTable.Lookup(ev)
	if !ok {
		return nil
	}
	return &Intent{Type: entry.Type, Pad: entry.Pad}
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	held := ev.Buttons()
	pressed := held&tcell.Button1 != 0 && m.buttons&tcell.Button1 == 0
	m.buttons = held

	if !pressed || m.pointer == nil {
		return nil
	}
	x, y := ev.Position()
	intent, ok := m.pointer.IntentAt(x, y)
	if !ok {
		return nil
	}
	return &intent
}
