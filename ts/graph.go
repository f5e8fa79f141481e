package ts

import (
	"fmt"

	"gofvm/set"
)

// Post returns the direct successors of state s.
func (ts *TransitionSystem[S, A, P]) Post(s S) (set.Set[S], error) {
	out, ok := ts.out[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	post := set.Set[S]{}
	for _, t := range out.Items() {
		post.Add(t.To)
	}
	return post, nil
}

// PostAction returns the states reached from s by a transition labeled a.
func (ts *TransitionSystem[S, A, P]) PostAction(s S, a A) (set.Set[S], error) {
	out, ok := ts.out[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	if !ts.actions.Has(a) {
		return nil, fmt.Errorf("%w: %v", ErrActionNotFound, a)
	}
	post := set.Set[S]{}
	for _, t := range out.Items() {
		if t.Action == a {
			post.Add(t.To)
		}
	}
	return post, nil
}

// PostSet returns the union of Post over the states in c.
func (ts *TransitionSystem[S, A, P]) PostSet(c set.Set[S]) (set.Set[S], error) {
	post := set.Set[S]{}
	for s := range c {
		successors, err := ts.Post(s)
		if err != nil {
			return nil, err
		}
		post = post.Union(successors)
	}
	return post, nil
}

func (ts *TransitionSystem[S, A, P]) PostSetAction(c set.Set[S], a A) (set.Set[S], error) {
	if !ts.actions.Has(a) {
		return nil, fmt.Errorf("%w: %v", ErrActionNotFound, a)
	}
	post := set.Set[S]{}
	for s := range c {
		successors, err := ts.PostAction(s, a)
		if err != nil {
			return nil, err
		}
		post = post.Union(successors)
	}
	return post, nil
}

// Pre returns the direct predecessors of state s.
func (ts *TransitionSystem[S, A, P]) Pre(s S) (set.Set[S], error) {
	in, ok := ts.in[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	pre := set.Set[S]{}
	for _, t := range in.Items() {
		pre.Add(t.From)
	}
	return pre, nil
}

// PreAction returns the states that reach s by a transition labeled a.
func (ts *TransitionSystem[S, A, P]) PreAction(s S, a A) (set.Set[S], error) {
	in, ok := ts.in[s]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	if !ts.actions.Has(a) {
		return nil, fmt.Errorf("%w: %v", ErrActionNotFound, a)
	}
	pre := set.Set[S]{}
	for _, t := range in.Items() {
		if t.Action == a {
			pre.Add(t.From)
		}
	}
	return pre, nil
}

func (ts *TransitionSystem[S, A, P]) PreSet(c set.Set[S]) (set.Set[S], error) {
	pre := set.Set[S]{}
	for s := range c {
		predecessors, err := ts.Pre(s)
		if err != nil {
			return nil, err
		}
		pre = pre.Union(predecessors)
	}
	return pre, nil
}

func (ts *TransitionSystem[S, A, P]) PreSetAction(c set.Set[S], a A) (set.Set[S], error) {
	if !ts.actions.Has(a) {
		return nil, fmt.Errorf("%w: %v", ErrActionNotFound, a)
	}
	pre := set.Set[S]{}
	for s := range c {
		predecessors, err := ts.PreAction(s, a)
		if err != nil {
			return nil, err
		}
		pre = pre.Union(predecessors)
	}
	return pre, nil
}

// Successors returns the distinct successors of s in the order their
// transitions were added.
func (ts *TransitionSystem[S, A, P]) Successors(s S) ([]S, error) {
	if !ts.states.Has(s) {
		return nil, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	return ts.successors(s), nil
}

func (ts *TransitionSystem[S, A, P]) successors(s S) []S {
	out := ts.out[s]
	if out == nil {
		return nil
	}
	succ := set.NewOrdered[S]()
	for _, t := range out.Items() {
		succ.Add(t.To)
	}
	return succ.Items()
}

// Reach returns every state reachable from an initial state, the initial
// states included.
func (ts *TransitionSystem[S, A, P]) Reach() set.Set[S] {
	reached := set.Set[S]{}
	stack := make([]S, 0, ts.initial.Len())
	for _, s := range ts.initial.Items() {
		if !reached.Has(s) {
			reached.Add(s)
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range ts.out[s].Items() {
			if !reached.Has(t.To) {
				reached.Add(t.To)
				stack = append(stack, t.To)
			}
		}
	}
	return reached
}

// Returns true if state s has no outgoing transition.
func (ts *TransitionSystem[S, A, P]) IsStateTerminal(s S) (bool, error) {
	out, ok := ts.out[s]
	if !ok {
		return false, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	return out.Len() == 0, nil
}
