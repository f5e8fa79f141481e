// Package predicate builds automata for common property shapes.
//
// Every automaton accepts the runs that show the described behavior, so a
// model satisfies "never phi" exactly when checking it against Eventually(phi)
// succeeds. The automata read labels of type P and use "q0", "q1", ... as
// states, with q0 initial.
package predicate

import (
	"gofvm/automaton"
	"gofvm/set"
)

// Holds returns a guard that accepts labels containing every one of props.
func Holds[P comparable](props ...P) automaton.Guard[P] {
	return func(label set.Set[P]) bool {
		for _, p := range props {
			if !label.Has(p) {
				return false
			}
		}
		return true
	}
}

// Any returns a guard that accepts labels containing at least one of props.
func Any[P comparable](props ...P) automaton.Guard[P] {
	return func(label set.Set[P]) bool {
		for _, p := range props {
			if label.Has(p) {
				return true
			}
		}
		return false
	}
}

func Not[P comparable](g automaton.Guard[P]) automaton.Guard[P] {
	return func(label set.Set[P]) bool { return !g(label) }
}

func And[P comparable](guards ...automaton.Guard[P]) automaton.Guard[P] {
	return func(label set.Set[P]) bool {
		for _, g := range guards {
			if !g(label) {
				return false
			}
		}
		return true
	}
}

// Eventually accepts the runs on which phi holds at some point.
func Eventually[P comparable](phi automaton.Guard[P]) *automaton.Automaton[string, P] {
	a := build[P](2, "q1")
	must(a.AddEdge("q0", Not(phi), "q0"))
	must(a.AddEdge("q0", phi, "q1"))
	must(a.AddEdge("q1", automaton.Always[P](), "q1"))
	return a
}

// EventuallyThenAlways accepts the runs on which phi1 holds at some point and
// phi2 holds in every state after it.
func EventuallyThenAlways[P comparable](phi1, phi2 automaton.Guard[P]) *automaton.Automaton[string, P] {
	a := build[P](2, "q1")
	must(a.AddEdge("q0", automaton.Always[P](), "q0"))
	must(a.AddEdge("q0", phi1, "q1"))
	must(a.AddEdge("q1", phi2, "q1"))
	return a
}

// InfinitelyOften accepts the runs on which phi holds infinitely often.
func InfinitelyOften[P comparable](phi automaton.Guard[P]) *automaton.Automaton[string, P] {
	a := build[P](2, "q1")
	for _, q := range []string{"q0", "q1"} {
		must(a.AddEdge(q, Not(phi), "q0"))
		must(a.AddEdge(q, phi, "q1"))
	}
	return a
}

// Never accepts the runs on which phi never holds.
func Never[P comparable](phi automaton.Guard[P]) *automaton.Automaton[string, P] {
	a := build[P](1, "q0")
	must(a.AddEdge("q0", Not(phi), "q0"))
	return a
}

func build[P comparable](n int, accepting string) *automaton.Automaton[string, P] {
	a := automaton.New[string, P]()
	for _, q := range []string{"q0", "q1"}[:n] {
		a.AddState(q)
	}
	must(a.SetInitial("q0", true))
	must(a.SetAccepting(accepting, true))
	return a
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
