package ts

// IsActionDeterministic reports whether the system has at most one initial
// state and every reachable state has at most one successor per action.
func (ts *TransitionSystem[S, A, P]) IsActionDeterministic() bool {
	if ts.initial.Len() > 1 {
		return false
	}
	for s := range ts.Reach() {
		seen := map[A]S{}
		for _, t := range ts.out[s].Items() {
			if to, ok := seen[t.Action]; ok && to != t.To {
				return false
			}
			seen[t.Action] = t.To
		}
	}
	return true
}

// IsAPDeterministic reports whether the system has at most one initial state
// and no reachable state has two distinct successors carrying the same label.
func (ts *TransitionSystem[S, A, P]) IsAPDeterministic() bool {
	if ts.initial.Len() > 1 {
		return false
	}
	for s := range ts.Reach() {
		succ := ts.successors(s)
		for i, a := range succ {
			for _, b := range succ[i+1:] {
				if ts.labels[a].Set().Equal(ts.labels[b].Set()) {
					return false
				}
			}
		}
	}
	return true
}
