// Package product builds the synchronous product of a transition system and
// an automaton reading its labels.
package product

import (
	"gofvm/automaton"
	"gofvm/ts"
)

// Build returns the product of sys and aut.
//
// The product moves from (s, q) to (s', q') with action a when sys moves from
// s to s' with a and aut moves from q to q' reading the label of s'. Its
// initial states are (s, q') for every initial s and every q' the automaton
// reaches from an initial state by reading the label of s. Each product state
// is labeled with its automaton component.
//
// Only the part reachable from the initial states is kept, and automaton
// states that label no product state are dropped from the propositions.
func Build[S, A, P, Q comparable](sys *ts.TransitionSystem[S, A, P], aut *automaton.Automaton[Q, P]) *ts.TransitionSystem[ts.Pair[S, Q], A, Q] {
	if sys == nil || aut == nil {
		panic("product: nil transition system or automaton")
	}
	prod := ts.New[ts.Pair[S, Q], A, Q](sys.Name + "×automaton")
	prod.AddAction(sys.Actions()...)
	prod.AddProposition(aut.States()...)

	for _, s := range sys.States() {
		for _, q := range aut.States() {
			p := ts.PairOf(s, q)
			prod.AddState(p)
			must(prod.AddLabel(p, q))
		}
	}

	for _, t := range sys.Transitions() {
		label, err := sys.Label(t.To)
		must(err)
		for _, q := range aut.States() {
			for _, next := range aut.Next(q, label) {
				must(prod.AddTransition(ts.Transition[ts.Pair[S, Q], A]{
					From:   ts.PairOf(t.From, q),
					Action: t.Action,
					To:     ts.PairOf(t.To, next),
				}))
			}
		}
	}

	for _, s := range sys.InitialStates() {
		label, err := sys.Label(s)
		must(err)
		for _, q := range aut.InitialStates() {
			for _, next := range aut.Next(q, label) {
				must(prod.SetInitial(ts.PairOf(s, next), true))
			}
		}
	}

	prod.Prune()
	prod.PruneUnusedPropositions()
	return prod
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
