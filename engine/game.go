package engine

import (
	"io"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/engine/fsm"
	"github.com/lixenwraith/simon/status"
)

// Options configures a Game; zero values select defaults
type Options struct {
	Pacing  Pacing
	Emitter Emitter
	Store   ScoreStore
	Clock   TimeProvider

	// Picker draws sequence pads; nil uses RandomPicker(Seed)
	Picker PadPicker
	Seed   int64

	Policy  NewBestPolicy
	Logger  logrus.FieldLogger
	Metrics *status.Registry

	// PhaseGraph is an optional TOML file overriding the embedded phase graph
	PhaseGraph string
}

// gameStats caches registry pointers so hot paths skip the map lookup
type gameStats struct {
	games      *atomic.Int64
	gamesOver  *atomic.Int64
	rounds     *atomic.Int64
	presses    *atomic.Int64
	replays    *atomic.Int64
	sweeps     *atomic.Int64
	emitErrors *atomic.Int64
	saveErrors *atomic.Int64
	score      *atomic.Int64
	best       *atomic.Int64
	phase      *status.AtomicString
	muted      *atomic.Bool
}

func newGameStats(reg *status.Registry) gameStats {
	return gameStats{
		games:      reg.Counters.Get("engine.games"),
		gamesOver:  reg.Counters.Get("engine.games_over"),
		rounds:     reg.Counters.Get("engine.rounds"),
		presses:    reg.Counters.Get("engine.presses"),
		replays:    reg.Counters.Get("engine.replays"),
		sweeps:     reg.Counters.Get("engine.sweeps"),
		emitErrors: reg.Counters.Get("engine.emit_errors"),
		saveErrors: reg.Counters.Get("engine.save_errors"),
		score:      reg.Ints.Get("engine.score"),
		best:       reg.Ints.Get("engine.best"),
		phase:      reg.Strings.Get("engine.phase"),
		muted:      reg.Bools.Get("engine.muted"),
	}
}

// Game is the sequence-playback and input-validation engine
// Not safe for concurrent use; Runner serializes access from other goroutines
type Game struct {
	pacing  Pacing
	emitter Emitter
	store   ScoreStore
	saver   *bestWriter
	clock   TimeProvider
	pick    PadPicker
	policy  NewBestPolicy
	log     logrus.FieldLogger

	sched     *Scheduler
	fsm       *fsm.Machine[*Game]
	state     State
	muted     bool
	flashTask TaskID
	lastTick  time.Time

	gameID     uuid.UUID
	bestBefore int
	newBest    bool

	listeners []func(Snapshot)
	stats     gameStats
}

// New builds an Idle game, reading the best score from the store
func New(opts Options) (*Game, error) {
	pacing := opts.Pacing
	if pacing == (Pacing{}) {
		pacing = DefaultPacing()
	}
	if err := pacing.Validate(); err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	emitter := opts.Emitter
	if emitter == nil {
		emitter = newClockEmitter(clock)
	}
	store := opts.Store
	if store == nil {
		store = &memoryStore{}
	}
	pick := opts.Picker
	if pick == nil {
		pick = RandomPicker(opts.Seed)
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	reg := opts.Metrics
	if reg == nil {
		reg = status.NewRegistry()
	}

	g := &Game{
		pacing:  pacing,
		emitter: emitter,
		store:   store,
		clock:   clock,
		pick:    pick,
		policy:  opts.Policy,
		log:     log,
		sched:   NewScheduler(clock),
		state:   InitialState(store.GetBest()),
		stats:   newGameStats(reg),
	}
	g.lastTick = clock.Now()
	g.saver = newBestWriter(store, g.saveFailed)

	if err := g.loadPhaseGraph(opts.PhaseGraph); err != nil {
		return nil, err
	}
	g.updateStats()
	g.log.WithField("best", g.state.Best).Debug("engine ready")
	return g, nil
}

// Start begins a new game from any phase
func (g *Game) Start() {
	g.sweep()

	g.gameID = uuid.New()
	g.bestBefore = g.state.Best
	g.newBest = false
	g.state = NewGameState(g.state, g.pick())
	g.stats.games.Add(1)

	g.fsm.HandleEvent(g, EventStart)
	g.gameLog().Info("game started")

	g.schedulePlayback()
	g.publish()
}

// Replay re-emits the current sequence from Idle or Input
// Returns false when the phase graph rejects it
func (g *Game) Replay() bool {
	if !g.fsm.HandleEvent(g, EventReplay) {
		return false
	}
	g.stats.replays.Add(1)
	g.gameLog().WithField("length", len(g.state.Sequence)).Debug("replay")

	g.schedulePlayback()
	g.publish()
	return true
}

// Press handles a pad press; returns false when the press is ignored
func (g *Game) Press(pad core.PadID) bool {
	if !pad.Valid() || !g.state.Phase.AcceptsInput() || g.state.Locked {
		return false
	}
	g.stats.presses.Add(1)

	g.emitTone(pad, g.emitter.Now(), g.pacing.Press)
	g.flash(pad, g.pacing.Press)

	next, verdict := ApplyPress(g.state, pad, g.pick)
	g.state = next

	switch verdict {
	case VerdictMismatch:
		g.finishGame()
		g.sched.After(g.pacing.GameOverDelay, func() {
			g.fsm.HandleEvent(g, EventLose)
			g.publish()
		})

	case VerdictRoundComplete:
		g.stats.rounds.Add(1)
		g.gameLog().WithField("length", len(g.state.Sequence)).Debug("round complete")
		g.sched.After(g.pacing.RoundDelay, func() {
			g.fsm.HandleEvent(g, EventAdvance)
			g.schedulePlayback()
			g.publish()
		})
	}

	g.publish()
	return true
}

// ToggleMute flips the mute flag and returns the new value
// Only emissions that have not yet fired are affected
func (g *Game) ToggleMute() bool {
	g.muted = !g.muted
	g.publish()
	return g.muted
}

// Tick fires due callbacks and advances the phase graph clock
func (g *Game) Tick() int {
	now := g.clock.Now()
	dt := now.Sub(g.lastTick)
	g.lastTick = now

	fired := g.sched.RunDue()
	g.fsm.Update(g, dt)
	return fired
}

// NextDeadline is the earliest pending callback time
func (g *Game) NextDeadline() (time.Time, bool) {
	return g.sched.NextDeadline()
}

// FlushSaves waits for queued best-score saves to reach the store
// Safe to call from any goroutine
func (g *Game) FlushSaves() {
	g.saver.Flush()
}

// Snapshot returns the current view
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Score:       g.state.Score,
		Best:        g.state.Best,
		Phase:       g.state.Phase,
		ActivePad:   g.state.ActivePad,
		InputLen:    len(g.state.Input),
		SequenceLen: len(g.state.Sequence),
		Muted:       g.muted,
		Locked:      g.state.Locked,
		NewBest:     g.state.Phase == PhaseGameOver && g.newBest,
	}
	if g.gameID != uuid.Nil {
		snap.GameID = g.gameID.String()
	}
	return snap
}

// Subscribe registers fn to receive a snapshot after every state change
func (g *Game) Subscribe(fn func(Snapshot)) {
	g.listeners = append(g.listeners, fn)
}

// State returns a copy of the engine state
func (g *Game) State() State {
	return g.state.clone()
}

// schedulePlayback sweeps and schedules one emission and pulse per sequence pad
// plus the completion callback that opens input
func (g *Game) schedulePlayback() {
	g.sweep()

	seq := slices.Clone(g.state.Sequence)
	base := g.emitter.Now() + g.pacing.LeadIn
	flash := g.pacing.Flash()

	for i, pad := range seq {
		offset := g.pacing.Offset(i)
		g.sched.After(offset, func() {
			g.emitTone(pad, base+offset, g.pacing.Tone)
			g.setActive(pad)
		})
		g.sched.After(offset+flash, func() {
			g.setActive(core.NoPad)
		})
	}

	g.sched.After(g.pacing.PlaybackLength(len(seq)), func() {
		g.fsm.HandleEvent(g, EventPlaybackDone)
		g.publish()
	})
}

// sweep drops every pending callback and silences tones the emitter still holds
func (g *Game) sweep() {
	g.sched.CancelAll()
	g.flashTask = 0
	if s, ok := g.emitter.(Silencer); ok {
		s.Silence()
	}
	g.stats.sweeps.Add(1)
}

// emitTone hands one tone to the emitter; mute is read now, at emission time
func (g *Game) emitTone(pad core.PadID, at, d time.Duration) {
	tone := core.Tone{
		Frequency: pad.Pad().Frequency,
		At:        at,
		Duration:  d,
		Muted:     g.muted,
	}
	if err := g.emitter.Emit(tone); err != nil {
		g.stats.emitErrors.Add(1)
		g.gameLog().WithError(err).Debug("emit failed")
	}
}

// flash lights pad for d, replacing any pending press flash
func (g *Game) flash(pad core.PadID, d time.Duration) {
	if g.flashTask != 0 {
		g.sched.Cancel(g.flashTask)
	}
	g.state = WithActivePad(g.state, pad)
	g.flashTask = g.sched.After(d, func() {
		g.flashTask = 0
		g.setActive(core.NoPad)
	})
}

func (g *Game) setActive(pad core.PadID) {
	g.state = WithActivePad(g.state, pad)
	g.publish()
}

// finishGame queues the best score for saving on a mismatch
func (g *Game) finishGame() {
	g.newBest = g.policy.IsNewBest(g.state.Score, g.bestBefore)
	g.saver.Write(g.state.Best)
	g.gameLog().WithFields(logrus.Fields{
		"best":     g.state.Best,
		"new_best": g.newBest,
	}).Info("game lost")
}

// saveFailed runs on the writer goroutine; it touches only the logger and atomics
func (g *Game) saveFailed(best int, err error) {
	g.stats.saveErrors.Add(1)
	g.log.WithError(err).WithField("best", best).Warn("best score not saved")
}

func (g *Game) gameLog() logrus.FieldLogger {
	return g.log.WithFields(logrus.Fields{
		"game_id": g.gameID.String(),
		"score":   g.state.Score,
	})
}

func (g *Game) publish() {
	g.updateStats()
	if len(g.listeners) == 0 {
		return
	}
	snap := g.Snapshot()
	for _, fn := range g.listeners {
		fn(snap)
	}
}

func (g *Game) updateStats() {
	g.stats.score.Store(int64(g.state.Score))
	g.stats.best.Store(int64(g.state.Best))
	g.stats.phase.Store(g.state.Phase.String())
	g.stats.muted.Store(g.muted)
}
