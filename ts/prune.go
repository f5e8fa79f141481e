package ts

import "gofvm/set"

// Prune removes every state that is not reachable from an initial state,
// together with the transitions and labels attached to it.
//
// This is the only operation that removes referenced elements. It is safe
// because everything it removes belongs to the unreachable part.
// Returns the number of removed states.
func (ts *TransitionSystem[S, A, P]) Prune() int {
	reachable := ts.Reach()
	removed := ts.states.Len() - reachable.Len()
	if removed == 0 {
		return 0
	}

	ts.transitions.Retain(func(t Transition[S, A]) bool {
		return reachable.Has(t.From) && reachable.Has(t.To)
	})
	ts.states.Retain(reachable.Has)
	for s := range ts.labels {
		if !reachable.Has(s) {
			delete(ts.labels, s)
			delete(ts.out, s)
			delete(ts.in, s)
		}
	}
	// Transitions between reachable states always start in a reachable
	// state, but may still point back from one
	for _, s := range ts.states.Items() {
		ts.in[s].Retain(func(t Transition[S, A]) bool { return reachable.Has(t.From) })
	}
	return removed
}

// PruneUnusedPropositions removes every atomic proposition that labels no state.
// Returns the number of removed propositions.
func (ts *TransitionSystem[S, A, P]) PruneUnusedPropositions() int {
	used := set.Set[P]{}
	for _, label := range ts.labels {
		used.Add(label.Items()...)
	}
	before := ts.props.Len()
	ts.props.Retain(used.Has)
	return before - ts.props.Len()
}

// Relabel replaces the atomic propositions and the complete labeling function.
//
// label is called once per state and must only return propositions from props.
func (ts *TransitionSystem[S, A, P]) Relabel(props []P, label func(S) []P) error {
	for _, l := range ts.labels {
		l.Retain(func(P) bool { return false })
	}
	ts.props = set.NewOrdered(props...)
	for _, s := range ts.states.Items() {
		for _, p := range label(s) {
			if err := ts.AddLabel(s, p); err != nil {
				return err
			}
		}
	}
	return nil
}
