package engine

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/simon/core"
)

// RandomPicker draws pads uniformly and independently; seed 0 uses the clock
func RandomPicker(seed int64) PadPicker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewPCG(uint64(seed), 0))
	return func() core.PadID {
		return core.PadID(r.IntN(core.PadCount))
	}
}

// SequencePicker replays ids in order and then cycles; used for scripted games
func SequencePicker(ids ...core.PadID) PadPicker {
	if len(ids) == 0 {
		ids = []core.PadID{0}
	}
	i := 0
	return func() core.PadID {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
