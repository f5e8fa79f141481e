// Package compose builds joint models out of independent components.
//
// Every composition of transition systems is pruned to its reachable part
// before it is returned.
package compose

import (
	"gofvm/set"
	"gofvm/ts"
)

// Interleave composes the two systems with every action independent: each
// transition of one side happens while the other side stays put.
func Interleave[S1, S2, A, P comparable](
	ts1 *ts.TransitionSystem[S1, A, P],
	ts2 *ts.TransitionSystem[S2, A, P],
) *ts.TransitionSystem[ts.Pair[S1, S2], A, P] {
	return InterleaveHandshake(ts1, ts2, nil)
}

// InterleaveHandshake composes the two systems. Actions in handshake happen in
// both sides simultaneously, all other actions interleave.
func InterleaveHandshake[S1, S2, A, P comparable](
	ts1 *ts.TransitionSystem[S1, A, P],
	ts2 *ts.TransitionSystem[S2, A, P],
	handshake set.Set[A],
) *ts.TransitionSystem[ts.Pair[S1, S2], A, P] {
	joint := ts.New[ts.Pair[S1, S2], A, P](ts1.Name + "||" + ts2.Name)

	for _, s1 := range ts1.States() {
		for _, s2 := range ts2.States() {
			joint.AddState(ts.PairOf(s1, s2))
		}
	}
	joint.AddAction(ts1.Actions()...)
	joint.AddAction(ts2.Actions()...)
	joint.AddProposition(ts1.Propositions()...)
	joint.AddProposition(ts2.Propositions()...)

	for _, t1 := range ts1.Transitions() {
		if !handshake.Has(t1.Action) {
			continue
		}
		for _, t2 := range ts2.Transitions() {
			if t1.Action == t2.Action {
				must(joint.AddTransition(ts.Transition[ts.Pair[S1, S2], A]{
					From:   ts.PairOf(t1.From, t2.From),
					Action: t1.Action,
					To:     ts.PairOf(t1.To, t2.To),
				}))
			}
		}
	}
	for _, t1 := range ts1.Transitions() {
		if handshake.Has(t1.Action) {
			continue
		}
		for _, s2 := range ts2.States() {
			must(joint.AddTransition(ts.Transition[ts.Pair[S1, S2], A]{
				From:   ts.PairOf(t1.From, s2),
				Action: t1.Action,
				To:     ts.PairOf(t1.To, s2),
			}))
		}
	}
	for _, t2 := range ts2.Transitions() {
		if handshake.Has(t2.Action) {
			continue
		}
		for _, s1 := range ts1.States() {
			must(joint.AddTransition(ts.Transition[ts.Pair[S1, S2], A]{
				From:   ts.PairOf(s1, t2.From),
				Action: t2.Action,
				To:     ts.PairOf(s1, t2.To),
			}))
		}
	}

	for _, s1 := range ts1.InitialStates() {
		for _, s2 := range ts2.InitialStates() {
			must(joint.SetInitial(ts.PairOf(s1, s2), true))
		}
	}

	for _, s := range joint.States() {
		for _, p := range ts1.LabelItems(s.First) {
			must(joint.AddLabel(s, p))
		}
		for _, p := range ts2.LabelItems(s.Second) {
			must(joint.AddLabel(s, p))
		}
	}

	joint.Prune()
	return joint
}

// The compositions only reference elements they declared themselves.
// An error here is a bug in this package.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
