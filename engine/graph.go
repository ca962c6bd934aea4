package engine

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/lixenwraith/simon/engine/fsm"
)

//go:embed phases.toml
var defaultPhaseGraph []byte

// Phase graph events
const (
	EventStart        fsm.Event = "start"
	EventReplay       fsm.Event = "replay"
	EventPlaybackDone fsm.Event = "playback_done"
	EventAdvance      fsm.Event = "advance"
	EventLose         fsm.Event = "lose"
)

// phaseEvents must each be handled somewhere in the graph
var phaseEvents = []fsm.Event{EventStart, EventReplay, EventPlaybackDone, EventAdvance, EventLose}

// ErrIncompleteGraph rejects a custom graph that drops an engine event
var ErrIncompleteGraph = errors.New("incomplete phase graph")

// phaseStates maps graph state names to phases; a custom graph must define all of them
var phaseStates = map[string]Phase{
	"Idle":     PhaseIdle,
	"Playing":  PhasePlaying,
	"Input":    PhaseInput,
	"GameOver": PhaseGameOver,
}

// loadPhaseGraph registers the engine's guards and actions and loads the graph
func (g *Game) loadPhaseGraph(customPath string) error {
	m := fsm.NewMachine[*Game]()

	m.RegisterGuard("HasSequence", func(g *Game) bool {
		return len(g.state.Sequence) > 0
	})
	m.RegisterGuard("Unlocked", func(g *Game) bool {
		return !g.state.Locked && len(g.state.Sequence) > 0
	})

	m.RegisterAction("BeginPlayback", func(g *Game, _ map[string]any) {
		g.state = BeginPlayback(g.state)
	})
	m.RegisterAction("OpenInput", func(g *Game, _ map[string]any) {
		g.state = EnterInput(g.state)
	})
	m.RegisterAction("CloseGame", func(g *Game, _ map[string]any) {
		g.state = EnterGameOver(g.state)
		g.stats.gamesOver.Add(1)
	})
	m.RegisterAction("Log", func(g *Game, args map[string]any) {
		msg, _ := args["msg"].(string)
		g.gameLog().WithField("phase", g.state.Phase.String()).Info(msg)
	})

	if err := fsm.LoadConfigAuto(m, customPath, defaultPhaseGraph); err != nil {
		return fmt.Errorf("phase graph: %w", err)
	}
	for name := range phaseStates {
		if _, ok := m.GetStateID(name); !ok {
			return fmt.Errorf("phase graph missing state %q: %w", name, fsm.ErrUnknownState)
		}
	}
	if missing := m.Missing(phaseEvents...); len(missing) > 0 {
		return fmt.Errorf("phase graph never handles %v: %w", missing, ErrIncompleteGraph)
	}
	if err := m.Init(g); err != nil {
		return fmt.Errorf("phase graph init: %w", err)
	}

	g.fsm = m
	return nil
}
