package ts

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Run is an alternating sequence s0 a1 s1 ... an sn of states and actions.
// A Run holds one more state than actions.
type Run[S, A comparable] struct {
	States  []S
	Actions []A
}

// Create a run from its first state
func RunFrom[S, A comparable](s S) Run[S, A] {
	return Run[S, A]{States: []S{s}}
}

// Then returns a copy of the run extended by one step.
func (r Run[S, A]) Then(a A, s S) Run[S, A] {
	return Run[S, A]{
		States:  append(slices.Clone(r.States), s),
		Actions: append(slices.Clone(r.Actions), a),
	}
}

// IsExecutionFragment reports whether every step of the run is a transition of
// the system. Undeclared states or actions are reported as errors.
func (ts *TransitionSystem[S, A, P]) IsExecutionFragment(r Run[S, A]) (bool, error) {
	if len(r.States) != len(r.Actions)+1 {
		return false, fmt.Errorf("ts: malformed run with %v states and %v actions", len(r.States), len(r.Actions))
	}
	for i, a := range r.Actions {
		from, to := r.States[i], r.States[i+1]
		if !ts.states.Has(from) {
			return false, fmt.Errorf("%w: %v", ErrStateNotFound, from)
		}
		if !ts.actions.Has(a) {
			return false, fmt.Errorf("%w: %v", ErrActionNotFound, a)
		}
		if !ts.states.Has(to) {
			return false, fmt.Errorf("%w: %v", ErrStateNotFound, to)
		}
		if !ts.transitions.Has(Transition[S, A]{From: from, Action: a, To: to}) {
			return false, nil
		}
	}
	if len(r.Actions) == 0 && !ts.states.Has(r.States[0]) {
		return false, fmt.Errorf("%w: %v", ErrStateNotFound, r.States[0])
	}
	return true, nil
}

// IsInitialExecutionFragment reports whether the run is an execution fragment
// starting in an initial state.
func (ts *TransitionSystem[S, A, P]) IsInitialExecutionFragment(r Run[S, A]) (bool, error) {
	ok, err := ts.IsExecutionFragment(r)
	if err != nil || !ok {
		return false, err
	}
	return ts.initial.Has(r.States[0]), nil
}

// IsMaximalExecutionFragment reports whether the run is an execution fragment
// ending in a terminal state.
func (ts *TransitionSystem[S, A, P]) IsMaximalExecutionFragment(r Run[S, A]) (bool, error) {
	ok, err := ts.IsExecutionFragment(r)
	if err != nil || !ok {
		return false, err
	}
	return ts.IsStateTerminal(r.States[len(r.States)-1])
}

// IsExecution reports whether the run is both initial and maximal.
func (ts *TransitionSystem[S, A, P]) IsExecution(r Run[S, A]) (bool, error) {
	ok, err := ts.IsInitialExecutionFragment(r)
	if err != nil || !ok {
		return false, err
	}
	return ts.IsMaximalExecutionFragment(r)
}
