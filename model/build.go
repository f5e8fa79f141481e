package model

import (
	"fmt"

	"gofvm/automaton"
	"gofvm/eval"
	"gofvm/pg"
	"gofvm/predicate"
	"gofvm/ts"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Build returns the transition system described by s.
func (s *System) Build(name string) (*ts.TransitionSystem[string, string, string], error) {
	sys := ts.New[string, string, string](name)
	sys.AddState(s.States...)
	sys.AddAction(s.Actions...)
	sys.AddProposition(s.Propositions...)
	for _, i := range s.Initial {
		if err := sys.SetInitial(i, true); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	for _, t := range s.Transitions {
		if err := sys.AddTransition(ts.Transition[string, string]{From: t.From, Action: t.Action, To: t.To}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	// Map iteration order is random, labels are added in state order.
	states := maps.Keys(s.Labels)
	slices.Sort(states)
	for _, st := range states {
		for _, p := range s.Labels[st] {
			if err := sys.AddLabel(st, p); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
			}
		}
	}
	return sys, nil
}

// Build returns the program graph described by p.
func (p *Program) Build() (*pg.ProgramGraph[string], error) {
	g := pg.New[string](p.Name)
	g.AddLocation(p.Locations...)
	for _, l := range p.Initial {
		if err := g.SetInitial(l, true); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	for _, stmts := range p.Initializations {
		g.AddInitialization(stmts...)
	}
	for _, t := range p.Transitions {
		err := g.AddTransition(pg.Transition[string]{From: t.From, Condition: t.Condition, Action: t.Action, To: t.To})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return g, nil
}

// BuildPrograms returns the program graphs of the document in order.
func (d *Document) BuildPrograms() ([]*pg.ProgramGraph[string], error) {
	pgs := make([]*pg.ProgramGraph[string], 0, len(d.Programs))
	for i := range d.Programs {
		g, err := d.Programs[i].Build()
		if err != nil {
			return nil, err
		}
		pgs = append(pgs, g)
	}
	return pgs, nil
}

// Evaluators returns the evaluators the programs of the document run with.
func (d *Document) Evaluators() eval.Evaluators {
	return eval.Evaluators{
		Conditions: []eval.ConditionDef{eval.Expressions{}},
		Actions:    []eval.ActionDef{eval.Handshake{}, eval.Channels{Capacity: d.ChannelCapacity}, eval.Assignments{}},
	}
}

// Build returns the automaton accepting the runs that violate p.
func (p *Property) Build() (*automaton.Automaton[string, string], error) {
	switch {
	case len(p.Eventually) > 0 && len(p.ThenAlways) > 0:
		return predicate.EventuallyThenAlways(predicate.Holds(p.Eventually...), predicate.Holds(p.ThenAlways...)), nil
	case len(p.Eventually) > 0:
		return predicate.Eventually(predicate.Holds(p.Eventually...)), nil
	case len(p.InfinitelyOften) > 0:
		return predicate.InfinitelyOften(predicate.Holds(p.InfinitelyOften...)), nil
	case len(p.Never) > 0:
		return predicate.Never(predicate.Holds(p.Never...)), nil
	case p.Automaton != nil:
		return p.Automaton.Build()
	}
	return nil, fmt.Errorf("%w: property %q has no shape", ErrInvalidDocument, p.Name)
}

func (a *Automaton) Build() (*automaton.Automaton[string, string], error) {
	aut := automaton.New[string, string]()
	aut.AddState(a.States...)
	for _, q := range a.Initial {
		if err := aut.SetInitial(q, true); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	for _, q := range a.Accepting {
		if err := aut.SetAccepting(q, true); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	for _, e := range a.Edges {
		if err := aut.AddEdge(e.From, e.guard(), e.To); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return aut, nil
}

func (e AutomatonEdge) guard() automaton.Guard[string] {
	switch {
	case e.Any:
		return automaton.Always[string]()
	case e.Empty:
		return automaton.Exactly[string]()
	case len(e.Label) > 0:
		return automaton.Exactly(e.Label...)
	default:
		return predicate.Holds(e.Holds...)
	}
}
