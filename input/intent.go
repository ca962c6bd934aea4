package input

import (
	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/engine"
)

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // Esc, Ctrl+C, Ctrl+Q
	IntentResize // Terminal resize event

	// Game commands
	IntentStart      // Enter, space
	IntentReplay     // r
	IntentToggleMute // m
	IntentPad        // 1-4, q w a s, mouse click on a pad
)

// Intent is a parsed input event
type Intent struct {
	Type IntentType
	Pad  core.PadID // IntentPad only
}

// Command converts the intent into an engine command
// Returns false for intents the engine does not handle
func (i Intent) Command() (engine.Command, bool) {
	switch i.Type {
	case IntentStart:
		return engine.Command{Kind: engine.CmdStart}, true
	case IntentReplay:
		return engine.Command{Kind: engine.CmdReplay}, true
	case IntentToggleMute:
		return engine.Command{Kind: engine.CmdToggleMute}, true
	case IntentPad:
		if !i.Pad.Valid() {
			return engine.Command{}, false
		}
		return engine.Command{Kind: engine.CmdPress, Pad: i.Pad}, true
	}
	return engine.Command{}, false
}
