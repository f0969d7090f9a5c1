// Package domain contains the core domain models and business logic for the target table.
package domain

import (
	"iter"
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

var targetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-/]*$`)

// Table is the static set of targets known to a process.
// It keeps targets in declaration order.
type Table struct {
	targets       map[string]Target
	order         []string
	defaultTarget string
}

// NewTable creates a new empty Table.
func NewTable() *Table {
	return &Table{
		targets: make(map[string]Target),
	}
}

// AddTarget adds a target to the table.
// It returns an error if the name is invalid or a target with the same name already exists.
func (t *Table) AddTarget(target *Target) error {
	if !targetNamePattern.MatchString(target.Name) {
		return tag(ErrInvalidTargetName, "target", target.Name)
	}
	if _, exists := t.targets[target.Name]; exists {
		return tag(ErrTargetAlreadyExists, "target", target.Name)
	}

	cp := *target
	cp.Prerequisites = slices.Clone(target.Prerequisites)
	cp.Commands = slices.Clone(target.Commands)
	t.targets[target.Name] = cp
	t.order = append(t.order, target.Name)
	return nil
}

// SetDefault names the target run when none is requested.
func (t *Table) SetDefault(name string) {
	t.defaultTarget = name
}

// Default returns the default target: the one set with SetDefault,
// otherwise the first declared target.
func (t *Table) Default() string {
	if t.defaultTarget != "" {
		return t.defaultTarget
	}
	if len(t.order) == 0 {
		return ""
	}
	return t.order[0]
}

// Get returns the target with the given name.
func (t *Table) Get(name string) (Target, bool) {
	target, ok := t.targets[name]
	return target, ok
}

// Len returns the number of declared targets.
func (t *Table) Len() int {
	return len(t.order)
}

// Targets returns an iterator over the targets in declaration order.
func (t *Table) Targets() iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for _, name := range t.order {
			if !yield(t.targets[name]) {
				return
			}
		}
	}
}

// Validate checks that every prerequisite is declared, that the prerequisite
// graph is acyclic and that the default target exists.
func (t *Table) Validate() error {
	for _, name := range t.order {
		for _, dep := range t.targets[name].Prerequisites {
			if _, ok := t.targets[dep]; !ok {
				err := tag(ErrMissingPrerequisite, "target", name)
				return zerr.With(err, "prerequisite", dep)
			}
		}
	}

	p := t.newPlanner()
	for _, name := range t.order {
		if err := p.visit(name); err != nil {
			return err
		}
	}

	if def := t.Default(); def != "" {
		if _, ok := t.targets[def]; !ok {
			return &UnknownTargetError{Name: def}
		}
	}
	return nil
}

// Plan returns the targets to execute for the requested names, prerequisites
// first. Each target appears at most once even when it is reachable through
// several paths or requested more than once.
func (t *Table) Plan(names ...string) ([]Target, error) {
	for _, name := range names {
		if _, ok := t.targets[name]; !ok {
			return nil, &UnknownTargetError{Name: name}
		}
	}

	p := t.newPlanner()
	for _, name := range names {
		if err := p.visit(name); err != nil {
			return nil, err
		}
	}

	plan := make([]Target, 0, len(p.order))
	for _, name := range p.order {
		plan = append(plan, t.targets[name])
	}
	return plan, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// planner performs a memoized depth-first walk that records targets in post-order.
type planner struct {
	table *Table
	state map[string]visitState
	path  []string
	order []string
}

func (t *Table) newPlanner() *planner {
	return &planner{
		table: t,
		state: make(map[string]visitState, len(t.targets)),
	}
}

func (p *planner) visit(name string) error {
	switch p.state[name] {
	case visited:
		return nil
	case visiting:
		return p.cycleError(name)
	}

	target, ok := p.table.targets[name]
	if !ok {
		return &UnknownTargetError{Name: name}
	}

	p.state[name] = visiting
	p.path = append(p.path, name)

	for _, dep := range target.Prerequisites {
		if err := p.visit(dep); err != nil {
			return err
		}
	}

	p.state[name] = visited
	p.path = p.path[:len(p.path)-1]
	p.order = append(p.order, name)
	return nil
}

// cycleError builds the cycle from the point where name re-entered the active path.
func (p *planner) cycleError(name string) error {
	start := slices.Index(p.path, name)
	cycle := slices.Clone(p.path[start:])
	cycle = append(cycle, name)
	return &CycleError{Path: cycle}
}
