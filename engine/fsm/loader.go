package fsm

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// tickTrigger is the config spelling of the empty event
const tickTrigger = "Tick"

// LoadConfig parses a TOML byte slice and populates the Machine
// Validates all references (states, guards, actions) and clears existing graph data
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	return m.load(&config)
}

// LoadConfigAuto loads from customPath when set, otherwise from the embedded fallback
func LoadConfigAuto[T any](m *Machine[T], customPath string, embeddedFallback []byte) error {
	if customPath == "" {
		return m.LoadConfig(embeddedFallback)
	}
	data, err := os.ReadFile(customPath)
	if err != nil {
		return fmt.Errorf("failed to read FSM config %s: %w", customPath, err)
	}
	if err := m.LoadConfig(data); err != nil {
		return fmt.Errorf("%s: %w", customPath, err)
	}
	return nil
}

func (m *Machine[T]) load(config *RootConfig) error {
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	m.nodes = make(map[StateID]*Node[T])
	m.names = make(map[string]StateID)
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	m.InitialStateID = StateNone

	// First pass: Root and deterministic IDs
	m.AddState(StateRoot, "Root", StateNone)
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	nameToID := map[string]StateID{"Root": StateRoot}
	for i, name := range stateNames {
		nameToID[name] = StateID(i + 2)
	}

	// Second pass: nodes, actions, transitions
	for _, name := range append([]string{"Root"}, stateNames...) {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}

		var node *Node[T]
		if name == "Root" {
			node = m.nodes[StateRoot]
		} else {
			pName := cfg.Parent
			if pName == "" {
				pName = "Root"
			}
			parentID, ok := nameToID[pName]
			if !ok {
				return fmt.Errorf("state '%s' references unknown parent '%s': %w", name, pName, ErrUnknownState)
			}
			node = m.AddState(nameToID[name], name, parentID)
		}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	if err := m.CompilePaths(); err != nil {
		return err
	}

	if config.InitialState == "" {
		return ErrNotLoaded
	}
	initialID, ok := nameToID[config.InitialState]
	if !ok {
		return fmt.Errorf("initial state '%s': %w", config.InitialState, ErrUnknownState)
	}
	m.InitialStateID = initialID
	return nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("'%s': %w", cfg.Action, ErrUnknownAction)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg.Args})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := nameToID[cfg.Target]
		if !ok {
			return fmt.Errorf("target '%s': %w", cfg.Target, ErrUnknownState)
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			g, ok := m.guardReg[cfg.Guard]
			if !ok {
				return fmt.Errorf("'%s': %w", cfg.Guard, ErrUnknownGuard)
			}
			guard = g
		}

		ev := Event(cfg.Trigger)
		if cfg.Trigger == tickTrigger {
			ev = ""
		}
		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Event:    ev,
			Guard:    guard,
		})
	}
	return nil
}
