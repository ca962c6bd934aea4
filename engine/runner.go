package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/simon/constant"
	"github.com/lixenwraith/simon/core"
)

// CommandKind selects the engine operation a Command performs
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdReplay
	CmdPress
	CmdToggleMute
)

// Command is a player request delivered to the runner lane
type Command struct {
	Kind CommandKind
	Pad  core.PadID
}

// Runner is the single writer of a Game
// Its goroutine applies commands, fires scheduled callbacks and publishes snapshots
// Sleeps until the next scheduler deadline instead of ticking at a fixed rate
type Runner struct {
	game  *Game
	clock TimeProvider

	commands  chan Command
	snapshots chan Snapshot
	latest    atomic.Pointer[Snapshot]

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewRunner takes ownership of g; callers must not touch g afterwards
func NewRunner(g *Game) *Runner {
	r := &Runner{
		game:      g,
		clock:     g.clock,
		commands:  make(chan Command, constant.CommandQueueSize),
		snapshots: make(chan Snapshot, 1),
		stopChan:  make(chan struct{}),
	}
	snap := g.Snapshot()
	r.latest.Store(&snap)
	g.Subscribe(r.publish)
	return r
}

// Submit queues a command without blocking; returns false when the queue is full or stopped
func (r *Runner) Submit(cmd Command) bool {
	if !r.running.Load() {
		return false
	}
	select {
	case r.commands <- cmd:
		return true
	default:
		return false
	}
}

// Snapshots delivers the most recent snapshot; stale values are replaced, never queued
func (r *Runner) Snapshots() <-chan Snapshot {
	return r.snapshots
}

// Latest returns the last published snapshot
func (r *Runner) Latest() Snapshot {
	return *r.latest.Load()
}

// Start begins the runner loop
func (r *Runner) Start() {
	if r.running.CompareAndSwap(false, true) {
		r.wg.Add(1)
		core.Go(r.loop)
	}
}

// Stop halts the runner loop, waits for it to exit and flushes pending saves
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		if r.running.CompareAndSwap(true, false) {
			close(r.stopChan)
			r.wg.Wait()
		}
		r.game.FlushSaves()
	})
}

func (r *Runner) loop() {
	defer r.wg.Done()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	r.publish(r.game.Snapshot())

	for {
		r.game.Tick()

		wait := constant.IdleWait
		if deadline, ok := r.game.NextDeadline(); ok {
			wait = max(deadline.Sub(r.clock.Now()), 0)
		}
		timer.Reset(wait)

		select {
		case <-r.stopChan:
			return

		case cmd := <-r.commands:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			r.apply(cmd)

		case <-timer.C:
		}
	}
}

func (r *Runner) apply(cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		r.game.Start()
	case CmdReplay:
		r.game.Replay()
	case CmdPress:
		r.game.Press(cmd.Pad)
	case CmdToggleMute:
		r.game.ToggleMute()
	}
}

// publish keeps only the newest snapshot in the channel
// Runs on the runner goroutine, the channel's only sender
func (r *Runner) publish(s Snapshot) {
	r.latest.Store(&s)
	select {
	case r.snapshots <- s:
		return
	default:
	}
	select {
	case <-r.snapshots:
	default:
	}
	select {
	case r.snapshots <- s:
	default:
	}
}
