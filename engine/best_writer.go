package engine

import (
	"sync"

	"github.com/lixenwraith/simon/core"
)

// bestWriter persists best scores off the engine lane
// Only the newest value is kept while a save is in flight
type bestWriter struct {
	store ScoreStore
	onErr func(best int, err error)

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	queued  bool
	running bool
}

func newBestWriter(store ScoreStore, onErr func(int, error)) *bestWriter {
	w := &bestWriter{store: store, onErr: onErr}
	w.idle = sync.NewCond(&w.mu)
	return w
}

// Write queues best and returns immediately
func (w *bestWriter) Write(best int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = best
	w.queued = true
	if !w.running {
		w.running = true
		core.Go(w.drain)
	}
}

// Flush blocks until every queued value has been handed to the store
func (w *bestWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.running {
		w.idle.Wait()
	}
}

func (w *bestWriter) drain() {
	for {
		w.mu.Lock()
		if !w.queued {
			w.running = false
			w.idle.Broadcast()
			w.mu.Unlock()
			return
		}
		best := w.pending
		w.queued = false
		w.mu.Unlock()

		if err := w.store.SetBest(best); err != nil && w.onErr != nil {
			w.onErr(best, err)
		}
	}
}
