// Package fsm is a pushdown state machine over a closed set of state IDs.
// Each ID maps to a table entry of optional hooks; a nil hook is a no-op.
package fsm

import (
	"fmt"
	"time"
)

// Op is the stack operation a hook requests.
type Op uint8

const (
	None Op = iota
	Pop
	Push
	Switch
	Quit
)

func (o Op) String() string {
	switch o {
	case None:
		return "none"
	case Pop:
		return "pop"
	case Push:
		return "push"
	case Switch:
		return "switch"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Transition is returned by hooks. To is only read for Push and Switch.
type Transition[S ~int] struct {
	Op Op
	To S
}

// State is one row of the dispatch table. A is the actor the hooks mutate,
// E the per-frame environment handed to Update, R the render target.
type State[S ~int, A, E, R any] struct {
	Name string

	OnStart  func(A)
	OnStop   func(A)
	OnPause  func(A)
	OnResume func(A)

	HandleEvents func(A) Transition[S]
	Update       func(A, time.Duration, E) Transition[S]
	FixedUpdate  func(A) Transition[S]
	Draw         func(A, R)
}

// Table maps every state ID to its hooks. IDs index the slice directly.
type Table[S ~int, A, E, R any] []State[S, A, E, R]

// Machine drives one actor through a Table.
type Machine[S ~int, A, E, R any] struct {
	table   Table[S, A, E, R]
	actor   A
	stack   []S
	running bool

	// OnTransition, if set, observes every applied transition.
	OnTransition func(from S, tr Transition[S])
}

// New builds a stopped machine for actor.
func New[S ~int, A, E, R any](table Table[S, A, E, R], actor A) *Machine[S, A, E, R] {
	return &Machine[S, A, E, R]{
		table: table,
		actor: actor,
		stack: make([]S, 0, 4),
	}
}

// Start pushes the initial state and runs its OnStart. Starting a running
// machine is a no-op.
func (m *Machine[S, A, E, R]) Start(initial S) {
	if m.running {
		return
	}
	m.running = true
	m.stack = append(m.stack[:0], initial)
	if h := m.hooks(initial).OnStart; h != nil {
		h(m.actor)
	}
}

// Running reports whether the machine still dispatches hooks.
func (m *Machine[S, A, E, R]) Running() bool {
	return m.running
}

// Current returns the top of the stack. ok is false once halted.
func (m *Machine[S, A, E, R]) Current() (S, bool) {
	if len(m.stack) == 0 {
		var zero S
		return zero, false
	}
	return m.stack[len(m.stack)-1], true
}

// Stack returns a copy of the stack, bottom first.
func (m *Machine[S, A, E, R]) Stack() []S {
	out := make([]S, len(m.stack))
	copy(out, m.stack)
	return out
}

// Name returns the table name of s.
func (m *Machine[S, A, E, R]) Name(s S) string {
	return m.hooks(s).Name
}

func (m *Machine[S, A, E, R]) HandleEvents() {
	if cur, ok := m.active(); ok {
		if h := m.hooks(cur).HandleEvents; h != nil {
			m.Apply(h(m.actor))
		}
	}
}

func (m *Machine[S, A, E, R]) Update(dt time.Duration, env E) {
	if cur, ok := m.active(); ok {
		if h := m.hooks(cur).Update; h != nil {
			m.Apply(h(m.actor, dt, env))
		}
	}
}

func (m *Machine[S, A, E, R]) FixedUpdate() {
	if cur, ok := m.active(); ok {
		if h := m.hooks(cur).FixedUpdate; h != nil {
			m.Apply(h(m.actor))
		}
	}
}

// Draw renders only the active state.
func (m *Machine[S, A, E, R]) Draw(r R) {
	if cur, ok := m.active(); ok {
		if h := m.hooks(cur).Draw; h != nil {
			h(m.actor, r)
		}
	}
}

// Apply performs a transition immediately. It is exported so owners can force
// a transition from outside a hook (respawn, scripted cutscenes).
func (m *Machine[S, A, E, R]) Apply(tr Transition[S]) {
	if !m.running || tr.Op == None {
		return
	}
	from, _ := m.Current()

	switch tr.Op {
	case Pop:
		m.stop(m.popTop())
		if cur, ok := m.Current(); ok {
			m.call(m.hooks(cur).OnResume)
		} else {
			m.running = false
		}
	case Push:
		if cur, ok := m.Current(); ok {
			m.call(m.hooks(cur).OnPause)
		}
		m.stack = append(m.stack, tr.To)
		m.call(m.hooks(tr.To).OnStart)
	case Switch:
		if _, ok := m.Current(); ok {
			m.stop(m.popTop())
		}
		m.stack = append(m.stack, tr.To)
		m.call(m.hooks(tr.To).OnStart)
	case Quit:
		for len(m.stack) > 0 {
			m.stop(m.popTop())
		}
		m.running = false
	}

	if m.OnTransition != nil {
		m.OnTransition(from, tr)
	}
}

func (m *Machine[S, A, E, R]) active() (S, bool) {
	if !m.running {
		var zero S
		return zero, false
	}
	return m.Current()
}

func (m *Machine[S, A, E, R]) popTop() S {
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return top
}

func (m *Machine[S, A, E, R]) stop(s S) {
	m.call(m.hooks(s).OnStop)
}

func (m *Machine[S, A, E, R]) call(h func(A)) {
	if h != nil {
		h(m.actor)
	}
}

func (m *Machine[S, A, E, R]) hooks(s S) State[S, A, E, R] {
	i := int(s)
	if i < 0 || i >= len(m.table) {
		panic(fmt.Sprintf("fsm: state %d not in table of %d", i, len(m.table)))
	}
	return m.table[i]
}
