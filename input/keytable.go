package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simon/core"
)

// KeyEntry describes what a key does
type KeyEntry struct {
	Type IntentType
	Pad  core.PadID
}

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, Enter, Escape)
	SpecialKeys map[tcell.Key]KeyEntry

	// Rune bindings, matched case-insensitively
	Runes map[rune]KeyEntry
}

func pad(id core.PadID) KeyEntry {
	return KeyEntry{Type: IntentPad, Pad: id}
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyEscape: {Type: IntentQuit},
			tcell.KeyCtrlC:  {Type: IntentQuit},
			tcell.KeyCtrlQ:  {Type: IntentQuit},
			tcell.KeyEnter:  {Type: IntentStart},
		},

		Runes: map[rune]KeyEntry{
			// Pads by number and by position on the left hand
			'1': pad(0), '2': pad(1), '3': pad(2), '4': pad(3),
			'q': pad(0), 'w': pad(1), 'a': pad(2), 's': pad(3),

			' ': {Type: IntentStart},
			'r': {Type: IntentReplay},
			'm': {Type: IntentToggleMute},
		},
	}
}

// Lookup resolves a key event, folding upper-case runes
func (t *KeyTable) Lookup(ev *tcell.EventKey) (KeyEntry, bool) {
	if ev.Key() != tcell.KeyRune {
		entry, ok := t.SpecialKeys[ev.Key()]
		return entry, ok
	}
	r := ev.Rune()
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	entry, ok := t.Runes[r]
	return entry, ok
}
