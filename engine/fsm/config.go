package fsm

// RootConfig is a phase graph file: the initial state and every state by name
type RootConfig struct {
	InitialState string                  `toml:"initial"`
	States       map[string]*StateConfig `toml:"states"`
}

// StateConfig is one [states.<Name>] table; Parent defaults to Root
type StateConfig struct {
	Parent      string             `toml:"parent,omitempty"`
	OnEnter     []ActionConfig     `toml:"on_enter,omitempty"`
	OnExit      []ActionConfig     `toml:"on_exit,omitempty"`
	Transitions []TransitionConfig `toml:"transitions,omitempty"`
}

// TransitionConfig is one { trigger, target, guard } entry
// Trigger "Tick" fires on Update instead of an event
type TransitionConfig struct {
	Trigger string `toml:"trigger"`
	Target  string `toml:"target"`
	Guard   string `toml:"guard,omitempty"`
}

// ActionConfig names a registered action; Args reach it unchanged
type ActionConfig struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args,omitempty"`
}
