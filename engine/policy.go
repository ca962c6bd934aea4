package engine

import "fmt"

// NewBestPolicy decides when the game-over view announces a new best
// It is display policy only; the stored best follows max(best, score) regardless
type NewBestPolicy int

const (
	// NewBestOnTie announces when score reaches the previous best
	NewBestOnTie NewBestPolicy = iota
	// NewBestStrict announces only when score exceeds the previous best
	NewBestStrict
)

// ParseNewBestPolicy accepts "tie" or "strict"
func ParseNewBestPolicy(s string) (NewBestPolicy, error) {
	switch s {
	case "", "tie":
		return NewBestOnTie, nil
	case "strict":
		return NewBestStrict, nil
	default:
		return NewBestOnTie, fmt.Errorf("unknown new-best policy %q", s)
	}
}

func (p NewBestPolicy) String() string {
	if p == NewBestStrict {
		return "strict"
	}
	return "tie"
}

// IsNewBest compares the final score with the best recorded before this game ended
func (p NewBestPolicy) IsNewBest(score, previousBest int) bool {
	if score <= 0 {
		return false
	}
	if p == NewBestStrict {
		return score > previousBest
	}
	return score >= previousBest
}
