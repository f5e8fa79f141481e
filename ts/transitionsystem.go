// Package ts holds the transition system used by every stage of the
// verification pipeline, together with its graph primitives.
//
// A TransitionSystem keeps its states, actions, propositions and transitions
// in insertion order, so that every traversal of the same system visits
// elements in the same order.
package ts

import (
	"fmt"

	"gofvm/set"
)

type TransitionSystem[S, A, P comparable] struct {
	Name string

	states      *set.Ordered[S]
	initial     *set.Ordered[S]
	actions     *set.Ordered[A]
	props       *set.Ordered[P]
	labels      map[S]*set.Ordered[P]
	transitions *set.Ordered[Transition[S, A]]

	// Transitions indexed by source and by target state
	out map[S]*set.Ordered[Transition[S, A]]
	in  map[S]*set.Ordered[Transition[S, A]]
}

// Create an empty transition system
func New[S, A, P comparable](name string) *TransitionSystem[S, A, P] {
	return &TransitionSystem[S, A, P]{
		Name:        name,
		states:      set.NewOrdered[S](),
		initial:     set.NewOrdered[S](),
		actions:     set.NewOrdered[A](),
		props:       set.NewOrdered[P](),
		labels:      map[S]*set.Ordered[P]{},
		transitions: set.NewOrdered[Transition[S, A]](),
		out:         map[S]*set.Ordered[Transition[S, A]]{},
		in:          map[S]*set.Ordered[Transition[S, A]]{},
	}
}

// Add the states to the transition system. Adding a state twice has no effect.
func (ts *TransitionSystem[S, A, P]) AddState(states ...S) {
	for _, s := range states {
		if ts.states.Add(s) {
			ts.labels[s] = set.NewOrdered[P]()
			ts.out[s] = set.NewOrdered[Transition[S, A]]()
			ts.in[s] = set.NewOrdered[Transition[S, A]]()
		}
	}
}

func (ts *TransitionSystem[S, A, P]) AddAction(actions ...A) {
	for _, a := range actions {
		ts.actions.Add(a)
	}
}

func (ts *TransitionSystem[S, A, P]) AddProposition(props ...P) {
	for _, p := range props {
		ts.props.Add(p)
	}
}

// Mark the state as initial or remove the mark.
//
// Returns ErrStateNotFound if the state is not part of the system.
func (ts *TransitionSystem[S, A, P]) SetInitial(s S, isInitial bool) error {
	if !ts.states.Has(s) {
		return fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	if isInitial {
		ts.initial.Add(s)
	} else {
		ts.initial.Remove(s)
	}
	return nil
}

// Add the transition to the system.
//
// Both end points and the action must already be declared.
// Otherwise ErrInvalidTransition is returned and the system is left unchanged.
func (ts *TransitionSystem[S, A, P]) AddTransition(t Transition[S, A]) error {
	if !ts.states.Has(t.From) || !ts.states.Has(t.To) || !ts.actions.Has(t.Action) {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, t)
	}
	if ts.transitions.Add(t) {
		ts.out[t.From].Add(t)
		ts.in[t.To].Add(t)
	}
	return nil
}

// Add the atomic proposition p to the label of state s.
//
// Labeling a state twice with the same proposition has no effect.
func (ts *TransitionSystem[S, A, P]) AddLabel(s S, p P) error {
	label, ok := ts.labels[s]
	if !ok {
		return fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	if !ts.props.Has(p) {
		return fmt.Errorf("%w: %v", ErrPropositionNotFound, p)
	}
	label.Add(p)
	return nil
}

func (ts *TransitionSystem[S, A, P]) RemoveLabel(s S, p P) error {
	label, ok := ts.labels[s]
	if !ok {
		return fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	label.Remove(p)
	return nil
}

func (ts *TransitionSystem[S, A, P]) RemoveTransition(t Transition[S, A]) bool {
	if !ts.transitions.Remove(t) {
		return false
	}
	ts.out[t.From].Remove(t)
	ts.in[t.To].Remove(t)
	return true
}

// Remove the state from the system.
//
// The state must not be part of a transition, carry a label or be initial.
// Otherwise ErrStillReferenced is returned and nothing is removed.
func (ts *TransitionSystem[S, A, P]) RemoveState(s S) error {
	if !ts.states.Has(s) {
		return fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	if ts.out[s].Len() > 0 || ts.in[s].Len() > 0 {
		return fmt.Errorf("%w: state %v is part of a transition", ErrStillReferenced, s)
	}
	if ts.labels[s].Len() > 0 {
		return fmt.Errorf("%w: state %v is labeled", ErrStillReferenced, s)
	}
	if ts.initial.Has(s) {
		return fmt.Errorf("%w: state %v is an initial state", ErrStillReferenced, s)
	}
	ts.states.Remove(s)
	delete(ts.labels, s)
	delete(ts.out, s)
	delete(ts.in, s)
	return nil
}

// Remove the action from the system.
//
// Returns ErrStillReferenced if some transition uses the action.
func (ts *TransitionSystem[S, A, P]) RemoveAction(a A) error {
	if !ts.actions.Has(a) {
		return fmt.Errorf("%w: %v", ErrActionNotFound, a)
	}
	for _, t := range ts.transitions.Items() {
		if t.Action == a {
			return fmt.Errorf("%w: action %v is used by %v", ErrStillReferenced, a, t)
		}
	}
	ts.actions.Remove(a)
	return nil
}

// Remove the atomic proposition from the system.
//
// Returns ErrStillReferenced if some state is labeled with it.
func (ts *TransitionSystem[S, A, P]) RemoveProposition(p P) error {
	if !ts.props.Has(p) {
		return fmt.Errorf("%w: %v", ErrPropositionNotFound, p)
	}
	for _, s := range ts.states.Items() {
		if ts.labels[s].Has(p) {
			return fmt.Errorf("%w: proposition %v labels state %v", ErrStillReferenced, p, s)
		}
	}
	ts.props.Remove(p)
	return nil
}

func (ts *TransitionSystem[S, A, P]) HasState(s S) bool       { return ts.states.Has(s) }
func (ts *TransitionSystem[S, A, P]) HasAction(a A) bool      { return ts.actions.Has(a) }
func (ts *TransitionSystem[S, A, P]) HasProposition(p P) bool { return ts.props.Has(p) }
func (ts *TransitionSystem[S, A, P]) IsInitial(s S) bool      { return ts.initial.Has(s) }

func (ts *TransitionSystem[S, A, P]) HasTransition(t Transition[S, A]) bool {
	return ts.transitions.Has(t)
}

// The accessors below return the elements in insertion order.
// The returned slices are owned by the transition system and must not be modified.

func (ts *TransitionSystem[S, A, P]) States() []S                     { return ts.states.Items() }
func (ts *TransitionSystem[S, A, P]) InitialStates() []S              { return ts.initial.Items() }
func (ts *TransitionSystem[S, A, P]) Actions() []A                    { return ts.actions.Items() }
func (ts *TransitionSystem[S, A, P]) Propositions() []P               { return ts.props.Items() }
func (ts *TransitionSystem[S, A, P]) Transitions() []Transition[S, A] { return ts.transitions.Items() }

func (ts *TransitionSystem[S, A, P]) NumStates() int      { return ts.states.Len() }
func (ts *TransitionSystem[S, A, P]) NumTransitions() int { return ts.transitions.Len() }

// Label returns the atomic propositions that hold in state s.
func (ts *TransitionSystem[S, A, P]) Label(s S) (set.Set[P], error) {
	label, ok := ts.labels[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	return label.Set(), nil
}

// Labeling returns a copy of the complete labeling function.
// LabelItems returns the label of s in insertion order, or nil if s is not part
// of the system.
func (ts *TransitionSystem[S, A, P]) LabelItems(s S) []P {
	if label, ok := ts.labels[s]; ok {
		return label.Items()
	}
	return nil
}

func (ts *TransitionSystem[S, A, P]) Labeling() map[S]set.Set[P] {
	out := make(map[S]set.Set[P], len(ts.labels))
	for s, label := range ts.labels {
		out[s] = label.Set()
	}
	return out
}

func (ts *TransitionSystem[S, A, P]) String() string {
	return fmt.Sprintf("%v: %v states, %v initial, %v transitions, %v actions, %v propositions",
		ts.Name, ts.states.Len(), ts.initial.Len(), ts.transitions.Len(), ts.actions.Len(), ts.props.Len())
}
