package service

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicate       = errors.New("service already registered")
	ErrMissingDep      = errors.New("missing service dependency")
	ErrDependencyCycle = errors.New("service dependency cycle")
)

// Hub owns a set of services and drives their lifecycle in dependency order
type Hub struct {
	services map[string]Service
	args     map[string][]any
	order    []string
	started  []string
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		services: make(map[string]Service),
		args:     make(map[string][]any),
	}
}

// Register adds a service with the args passed to its Init
func (h *Hub) Register(s Service, args ...any) error {
	name := s.Name()
	if _, ok := h.services[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.services[name] = s
	h.args[name] = args
	return nil
}

// Get returns a registered service by name
func (h *Hub) Get(name string) (Service, bool) {
	s, ok := h.services[name]
	return s, ok
}

// InitAll resolves dependency order and initializes every service
func (h *Hub) InitAll() error {
	order, err := h.resolve()
	if err != nil {
		return err
	}
	h.order = order
	for _, name := range order {
		if err := h.services[name].Init(h.args[name]...); err != nil {
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	return nil
}

// StartAll starts services in init order
// On failure, already started services are stopped
func (h *Hub) StartAll() error {
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			h.StopAll()
			return fmt.Errorf("start %s: %w", name, err)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order, joining errors
func (h *Hub) StopAll() error {
	var errs []error
	for i := len(h.started) - 1; i >= 0; i-- {
		name := h.started[i]
		if err := h.services[name].Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
		}
	}
	h.started = nil
	return errors.Join(errs...)
}

// resolve returns a topological order, visiting names sorted for determinism
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(h.services))
	order := make([]string, 0, len(h.services))

	var visit func(name string) error
	visit = func(name string) error {
		switch marks[name] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrDependencyCycle, name)
		case done:
			return nil
		}
		s, ok := h.services[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingDep, name)
		}
		marks[name] = visiting
		for _, dep := range s.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range sortedKeys(h.services) {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func sortedKeys(m map[string]Service) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
