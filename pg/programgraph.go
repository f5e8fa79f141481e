// Package pg holds program graphs: locations connected by transitions that
// carry a guard and an action, both as opaque text.
package pg

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"gofvm/set"
)

var (
	ErrLocationNotFound = errors.New("pg: location not found")
)

type Transition[L comparable] struct {
	From      L
	Condition string
	Action    string
	To        L
}

func (t Transition[L]) String() string {
	return fmt.Sprintf("%v -[%v / %v]-> %v", t.From, t.Condition, t.Action, t.To)
}

type ProgramGraph[L comparable] struct {
	Name string

	locations   *set.Ordered[L]
	initial     *set.Ordered[L]
	transitions *set.Ordered[Transition[L]]
	// Each initialization is a sequence of statements that defines one
	// initial environment
	initializations [][]string
}

func New[L comparable](name string) *ProgramGraph[L] {
	return &ProgramGraph[L]{
		Name:        name,
		locations:   set.NewOrdered[L](),
		initial:     set.NewOrdered[L](),
		transitions: set.NewOrdered[Transition[L]](),
	}
}

func (pg *ProgramGraph[L]) AddLocation(locations ...L) {
	for _, l := range locations {
		pg.locations.Add(l)
	}
}

func (pg *ProgramGraph[L]) SetInitial(l L, isInitial bool) error {
	if !pg.locations.Has(l) {
		return fmt.Errorf("%w: %v", ErrLocationNotFound, l)
	}
	if isInitial {
		pg.initial.Add(l)
	} else {
		pg.initial.Remove(l)
	}
	return nil
}

// Add the transition. Both locations must already be part of the graph.
func (pg *ProgramGraph[L]) AddTransition(t Transition[L]) error {
	if !pg.locations.Has(t.From) {
		return fmt.Errorf("%w: %v", ErrLocationNotFound, t.From)
	}
	if !pg.locations.Has(t.To) {
		return fmt.Errorf("%w: %v", ErrLocationNotFound, t.To)
	}
	pg.transitions.Add(t)
	return nil
}

// AddInitialization adds one sequence of statements defining an initial
// environment. Adding the same sequence twice has no effect.
func (pg *ProgramGraph[L]) AddInitialization(stmts ...string) {
	for _, existing := range pg.initializations {
		if slices.Equal(existing, stmts) {
			return
		}
	}
	pg.initializations = append(pg.initializations, slices.Clone(stmts))
}

func (pg *ProgramGraph[L]) HasLocation(l L) bool { return pg.locations.Has(l) }
func (pg *ProgramGraph[L]) IsInitial(l L) bool   { return pg.initial.Has(l) }

func (pg *ProgramGraph[L]) Locations() []L               { return pg.locations.Items() }
func (pg *ProgramGraph[L]) InitialLocations() []L        { return pg.initial.Items() }
func (pg *ProgramGraph[L]) Transitions() []Transition[L] { return pg.transitions.Items() }
func (pg *ProgramGraph[L]) Initializations() [][]string  { return pg.initializations }

// Outgoing returns the transitions leaving l in insertion order.
func (pg *ProgramGraph[L]) Outgoing(l L) []Transition[L] {
	var out []Transition[L]
	for _, t := range pg.transitions.Items() {
		if t.From == l {
			out = append(out, t)
		}
	}
	return out
}

func (pg *ProgramGraph[L]) String() string {
	return fmt.Sprintf("%v: %v locations, %v transitions, %v initializations",
		pg.Name, pg.locations.Len(), pg.transitions.Len(), len(pg.initializations))
}
