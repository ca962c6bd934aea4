package core

// PadID identifies one of the four pads
type PadID int

// NoPad marks the absence of an active pad
const NoPad PadID = -1

// PadCount is the fixed number of pads
const PadCount = 4

// Pad is a static input/output unit: position, color and tone
type Pad struct {
	ID        PadID
	Color     RGB     // Resting color
	Glow      RGB     // Color while active
	Frequency float64 // Hz
	Label     string  // Note name
}

// Pads is the immutable pad table, indexed by PadID
var Pads = [PadCount]Pad{
	{ID: 0, Color: MustParseHex("#22c55e"), Glow: MustParseHex("#86efac"), Frequency: 261.63, Label: "C4"},
	{ID: 1, Color: MustParseHex("#3b82f6"), Glow: MustParseHex("#93c5fd"), Frequency: 329.63, Label: "E4"},
	{ID: 2, Color: MustParseHex("#f59e0b"), Glow: MustParseHex("#fcd34d"), Frequency: 392.00, Label: "G4"},
	{ID: 3, Color: MustParseHex("#ef4444"), Glow: MustParseHex("#fca5a5"), Frequency: 523.25, Label: "C5"},
}

// Valid reports whether id names a pad
func (id PadID) Valid() bool {
	return id >= 0 && id < PadCount
}

// Pad returns the table entry for id; caller must check Valid first
func (id PadID) Pad() Pad {
	return Pads[id]
}
