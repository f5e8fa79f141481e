// Package automaton holds the acceptance automata that properties are
// expressed as.
//
// An automaton reads the label of every state of a run. Its edges carry
// guards over labels, so an edge stands for every label its guard accepts.
package automaton

import (
	"errors"
	"fmt"

	"gofvm/set"
)

var ErrStateNotFound = errors.New("automaton: state not found")

// Guard decides whether an edge can be taken when reading the label.
type Guard[P comparable] func(label set.Set[P]) bool

// Exactly returns a guard that only accepts the given label.
func Exactly[P comparable](label ...P) Guard[P] {
	expected := set.Of(label...)
	return func(l set.Set[P]) bool {
		return expected.Equal(l)
	}
}

// Always returns a guard that accepts every label.
func Always[P comparable]() Guard[P] {
	return func(set.Set[P]) bool { return true }
}

type Edge[Q, P comparable] struct {
	From  Q
	Guard Guard[P]
	To    Q
}

type Automaton[Q, P comparable] struct {
	states    *set.Ordered[Q]
	initial   *set.Ordered[Q]
	accepting *set.Ordered[Q]
	edges     map[Q][]Edge[Q, P]
}

func New[Q, P comparable]() *Automaton[Q, P] {
	return &Automaton[Q, P]{
		states:    set.NewOrdered[Q](),
		initial:   set.NewOrdered[Q](),
		accepting: set.NewOrdered[Q](),
		edges:     map[Q][]Edge[Q, P]{},
	}
}

func (a *Automaton[Q, P]) AddState(states ...Q) {
	for _, q := range states {
		a.states.Add(q)
	}
}

func (a *Automaton[Q, P]) SetInitial(q Q, isInitial bool) error {
	return a.mark(a.initial, q, isInitial)
}

func (a *Automaton[Q, P]) SetAccepting(q Q, isAccepting bool) error {
	return a.mark(a.accepting, q, isAccepting)
}

func (a *Automaton[Q, P]) mark(marked *set.Ordered[Q], q Q, on bool) error {
	if !a.states.Has(q) {
		return fmt.Errorf("%w: %v", ErrStateNotFound, q)
	}
	if on {
		marked.Add(q)
	} else {
		marked.Remove(q)
	}
	return nil
}

// AddEdge adds an edge from one state to another that can be taken whenever
// the guard accepts the label read.
func (a *Automaton[Q, P]) AddEdge(from Q, guard Guard[P], to Q) error {
	if !a.states.Has(from) {
		return fmt.Errorf("%w: %v", ErrStateNotFound, from)
	}
	if !a.states.Has(to) {
		return fmt.Errorf("%w: %v", ErrStateNotFound, to)
	}
	a.edges[from] = append(a.edges[from], Edge[Q, P]{From: from, Guard: guard, To: to})
	return nil
}

// Next returns the successors of q when reading the label, without
// duplicates and in the order the edges were added. No matching edge means
// no successor.
func (a *Automaton[Q, P]) Next(q Q, label set.Set[P]) []Q {
	next := set.NewOrdered[Q]()
	for _, e := range a.edges[q] {
		if e.Guard(label) {
			next.Add(e.To)
		}
	}
	return next.Items()
}

func (a *Automaton[Q, P]) HasState(q Q) bool    { return a.states.Has(q) }
func (a *Automaton[Q, P]) IsInitial(q Q) bool   { return a.initial.Has(q) }
func (a *Automaton[Q, P]) IsAccepting(q Q) bool { return a.accepting.Has(q) }

func (a *Automaton[Q, P]) States() []Q          { return a.states.Items() }
func (a *Automaton[Q, P]) InitialStates() []Q   { return a.initial.Items() }
func (a *Automaton[Q, P]) AcceptingStates() []Q { return a.accepting.Items() }

func (a *Automaton[Q, P]) Accepting() set.Set[Q] {
	return a.accepting.Set()
}

func (a *Automaton[Q, P]) String() string {
	edges := 0
	for _, out := range a.edges {
		edges += len(out)
	}
	return fmt.Sprintf("automaton: %v states, %v initial, %v accepting, %v edges",
		a.states.Len(), a.initial.Len(), a.accepting.Len(), edges)
}
