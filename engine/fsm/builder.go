package fsm

import "fmt"

// AddState registers a node; the loader calls it for every configured state
func (m *Machine[T]) AddState(id StateID, name string, parentID StateID) *Node[T] {
	node := &Node[T]{
		ID:          id,
		Name:        name,
		ParentID:    parentID,
		Transitions: make([]Transition[T], 0),
		OnEnter:     make([]Action[T], 0),
		OnExit:      make([]Action[T], 0),
	}
	m.nodes[id] = node
	m.names[name] = id
	return node
}

// AddTransition appends t to the source node; unknown sources are ignored
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// Handles reports whether any state has a transition on ev
// Lets callers reject a custom graph that can never react to one of their events
func (m *Machine[T]) Handles(ev Event) bool {
	for _, node := range m.nodes {
		for _, t := range node.Transitions {
			if t.Event == ev {
				return true
			}
		}
	}
	return false
}

// Missing returns the events in evs that no state handles, in input order
func (m *Machine[T]) Missing(evs ...Event) []Event {
	var missing []Event
	for _, ev := range evs {
		if !m.Handles(ev) {
			missing = append(missing, ev)
		}
	}
	return missing
}

// CompilePaths calculates the Path slice for every node in the graph
// Must be called after all nodes are added and before Init
func (m *Machine[T]) CompilePaths() error {
	for id, node := range m.nodes {
		path := make([]StateID, 0, 4)
		curr := node

		// Walk up to root
		for {
			path = append(path, curr.ID)
			if curr.ParentID == StateNone {
				break
			}
			parent, ok := m.nodes[curr.ParentID]
			if !ok {
				return fmt.Errorf("node %d references missing parent %d: %w", id, curr.ParentID, ErrUnknownState)
			}
			if len(path) > len(m.nodes) {
				return fmt.Errorf("node %d has a parent cycle", id)
			}
			curr = parent
		}

		// Reverse to get [Root, ..., Leaf]
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}

		node.Path = path
	}
	return nil
}
