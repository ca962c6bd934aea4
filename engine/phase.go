package engine

// Phase is the engine's externally visible state
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseInput
	PhaseGameOver
)

var phaseNames = [...]string{"idle", "playing", "input", "gameover"}

// String returns the lower-case phase name
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// ParsePhase resolves a phase name as written in the phase graph
func ParsePhase(name string) (Phase, bool) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), true
		}
	}
	return PhaseIdle, false
}

// AcceptsInput reports whether pad presses are considered in this phase
func (p Phase) AcceptsInput() bool {
	return p == PhaseInput
}
