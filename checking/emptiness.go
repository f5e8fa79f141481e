package checking

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"gofvm/set"
	"gofvm/tree"
	"gofvm/ts"
)

// EmptinessChecker searches the product for a cycle through an accepting
// state that is reachable from an initial state, using a nested depth first
// search.
type EmptinessChecker[S, Q, A comparable] struct {
	accepting set.Set[Q]
	log       *zap.Logger
	trees     []io.Writer
}

var _ Checker[int, int, int] = &EmptinessChecker[int, int, int]{}

// NewEmptinessChecker creates a checker for products whose automaton accepts
// in the given states.
func NewEmptinessChecker[S, Q, A comparable](accepting set.Set[Q], opts ...Option) *EmptinessChecker[S, Q, A] {
	c := &EmptinessChecker[S, Q, A]{
		accepting: accepting.Clone(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		switch t := opt.(type) {
		case loggerOption:
			c.log = t.log
		case searchTreeOption:
			c.trees = append(c.trees, t.w)
		}
	}
	return c
}

// Check the product.
//
// The outer search visits every reachable state once and collects the
// accepting states in the order it discovers them. For each of them, an inner
// search looks for a path back to the state itself. The first cycle found is
// reported together with the path of the outer search from an initial state
// to it.
//
// Returns an error only if ctx is done or the search trees cannot be written.
func (c *EmptinessChecker[S, Q, A]) Check(ctx context.Context, product *ts.TransitionSystem[ts.Pair[S, Q], A, Q]) (Result[S], error) {
	accepted, forest, err := c.collectAccepting(ctx, product)
	if err != nil {
		return nil, err
	}
	for _, w := range c.trees {
		err = multierr.Append(err, forest.WriteNewick(w))
	}
	if err != nil {
		return nil, fmt.Errorf("checking: writing search tree: %w", err)
	}
	c.log.Debug("Outer search done",
		zap.Int("visited", forest.Len()),
		zap.Int("accepting", len(accepted)),
	)

	for _, node := range accepted {
		s := node.Payload()
		cycle, found, err := c.cycleThrough(ctx, product, s)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		path := node.Path()
		prefix := path[:len(path)-1]
		c.log.Debug("Found accepting cycle",
			zap.String("state", fmt.Sprint(s)),
			zap.Int("prefix", len(prefix)),
			zap.Int("cycle", len(cycle)),
		)
		return Failed[S]{Prefix: project(prefix), Cycle: project(cycle)}, nil
	}
	return Succeeded[S]{}, nil
}

// collectAccepting runs the outer search. Returns the nodes of the accepting
// states in the order they were discovered and the spanning forest of the
// search.
func (c *EmptinessChecker[S, Q, A]) collectAccepting(ctx context.Context, product *ts.TransitionSystem[ts.Pair[S, Q], A, Q]) ([]*tree.Tree[ts.Pair[S, Q]], *tree.Forest[ts.Pair[S, Q]], error) {
	var (
		visited  = set.Set[ts.Pair[S, Q]]{}
		accepted []*tree.Tree[ts.Pair[S, Q]]
		forest   = &tree.Forest[ts.Pair[S, Q]]{}
	)
	for _, init := range product.InitialStates() {
		if visited.Has(init) {
			continue
		}
		visited.Add(init)
		root := forest.AddRoot(init)
		if c.accepting.Has(init.Second) {
			accepted = append(accepted, root)
		}
		succ, err := product.Successors(init)
		if err != nil {
			return nil, nil, err
		}
		stack := []frame[ts.Pair[S, Q]]{{state: init, node: root, succ: succ}}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("checking: %w", err)
			}
			top := &stack[len(stack)-1]
			if next, ok := top.next(visited); ok {
				visited.Add(next)
				node := top.node.AddChild(next)
				if c.accepting.Has(next.Second) {
					accepted = append(accepted, node)
				}
				succ, err := product.Successors(next)
				if err != nil {
					return nil, nil, err
				}
				stack = append(stack, frame[ts.Pair[S, Q]]{state: next, node: node, succ: succ})
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}
	return accepted, forest, nil
}

// cycleThrough searches for a path from s back to s. The returned cycle starts
// with s and does not repeat it at the end.
func (c *EmptinessChecker[S, Q, A]) cycleThrough(ctx context.Context, product *ts.TransitionSystem[ts.Pair[S, Q], A, Q], s ts.Pair[S, Q]) ([]ts.Pair[S, Q], bool, error) {
	visited := set.Of(s)
	var stack []frame[ts.Pair[S, Q]]
	push := func(state ts.Pair[S, Q]) (bool, error) {
		succ, err := product.Successors(state)
		if err != nil {
			return false, err
		}
		stack = append(stack, frame[ts.Pair[S, Q]]{state: state, succ: succ})
		return slices.Contains(succ, s), nil
	}

	if hit, err := push(s); err != nil || hit {
		return states(stack), hit, err
	}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("checking: %w", err)
		}
		next, ok := stack[len(stack)-1].next(visited)
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		visited.Add(next)
		if hit, err := push(next); err != nil || hit {
			return states(stack), hit, err
		}
	}
	return nil, false, nil
}

// frame is an entry of a search stack. The successors of the state are
// expanded one at a time. node is only set in the outer search.
type frame[T comparable] struct {
	state T
	node  *tree.Tree[T]
	succ  []T
	i     int
}

// next returns the next successor that has not been visited.
func (f *frame[T]) next(visited set.Set[T]) (T, bool) {
	for ; f.i < len(f.succ); f.i++ {
		if s := f.succ[f.i]; !visited.Has(s) {
			f.i++
			return s, true
		}
	}
	var zero T
	return zero, false
}

func states[T comparable](stack []frame[T]) []T {
	out := make([]T, len(stack))
	for i, f := range stack {
		out[i] = f.state
	}
	return out
}

func project[S, Q comparable](path []ts.Pair[S, Q]) []S {
	out := make([]S, len(path))
	for i, p := range path {
		out[i] = p.First
	}
	return out
}
