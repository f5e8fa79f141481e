// Package gofvm checks omega-regular properties of transition systems and
// program graphs.
//
// A property is given as an automaton accepting the runs that violate it. The
// system is combined with the automaton and searched for a reachable
// accepting cycle. A cycle is returned as a counterexample, a lasso made of a
// prefix and a cycle of system states.
package gofvm

import (
	"context"
	"fmt"
	"time"

	"gofvm/automaton"
	"gofvm/checking"
	"gofvm/compose"
	"gofvm/env"
	"gofvm/pg"
	"gofvm/product"
	"gofvm/ts"
	"gofvm/unfold"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Verify checks sys against the automaton aut.
func Verify[S, A, P, Q comparable](ctx context.Context, sys *ts.TransitionSystem[S, A, P], aut *automaton.Automaton[Q, P], opts ...Option) (checking.Result[S], error) {
	s := configure(opts)
	return verify(ctx, sys, aut, s)
}

func verify[S, A, P, Q comparable](ctx context.Context, sys *ts.TransitionSystem[S, A, P], aut *automaton.Automaton[Q, P], s settings) (checking.Result[S], error) {
	start := time.Now()
	prod := product.Build(sys, aut)
	s.log.Debug("Built product",
		zap.String("system", sys.Name),
		zap.Int("states", prod.NumStates()),
		zap.Int("transitions", prod.NumTransitions()),
		zap.Duration("duration", time.Since(start)),
	)

	checkOpts := []checking.Option{checking.WithLogger(s.log)}
	if s.searchTree != nil {
		checkOpts = append(checkOpts, checking.WithSearchTree(s.searchTree))
	}
	checker := checking.NewEmptinessChecker[S, Q, A](aut.Accepting(), checkOpts...)
	res, err := checker.Check(ctx, prod)
	if err != nil {
		s.log.Error("Check failed", zap.String("system", sys.Name), zap.Error(err))
		return nil, fmt.Errorf("gofvm: checking %v: %w", sys.Name, err)
	}
	ok, _ := res.Response()
	s.log.Debug("Checked product",
		zap.String("system", sys.Name),
		zap.Bool("holds", ok),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// VerifyAll checks sys against every automaton. At most WithConcurrency
// checks run at the same time. Results are in the order of auts.
//
// Search trees are written only when the checks run one at a time, in the
// order of auts.
func VerifyAll[S, A, P, Q comparable](ctx context.Context, sys *ts.TransitionSystem[S, A, P], auts []*automaton.Automaton[Q, P], opts ...Option) ([]checking.Result[S], error) {
	s := configure(opts)
	if s.concurrency != 1 && len(auts) > 1 {
		s.searchTree = nil
	}
	results := make([]checking.Result[S], len(auts))

	g, ctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, aut := range auts {
		i, aut := i, aut
		g.Go(func() error {
			res, err := verify(ctx, sys, aut, s)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Unfold composes the program graphs into a channel system and unfolds it
// into a transition system. States are pairs of location vectors and
// variable assignments.
func Unfold(ctx context.Context, pgs []*pg.ProgramGraph[string], opts ...Option) (*ts.TransitionSystem[ts.Pair[pg.Vector, env.Env], string, string], error) {
	s := configure(opts)
	return unfoldPrograms(ctx, pgs, s)
}

func unfoldPrograms(ctx context.Context, pgs []*pg.ProgramGraph[string], s settings) (*ts.TransitionSystem[ts.Pair[pg.Vector, env.Env], string, string], error) {
	if len(pgs) == 0 {
		return nil, fmt.Errorf("gofvm: no program graphs to unfold")
	}
	cs := compose.ChannelSystem(s.sync, pgs...)
	s.log.Debug("Composed channel system",
		zap.String("name", cs.Name),
		zap.Int("locations", len(cs.Locations())),
		zap.Int("transitions", len(cs.Transitions())),
	)
	sys, err := unfold.ProgramGraph(ctx, cs, s.evaluators,
		unfold.WithMaxStates(s.maxStates),
		unfold.WithLogger(s.log),
	)
	if err != nil {
		return nil, fmt.Errorf("gofvm: unfolding %v: %w", cs.Name, err)
	}
	return sys, nil
}

// VerifyProgramGraphs unfolds the program graphs running as a channel system
// and checks the result against aut.
func VerifyProgramGraphs[Q comparable](ctx context.Context, aut *automaton.Automaton[Q, string], pgs []*pg.ProgramGraph[string], opts ...Option) (checking.Result[ts.Pair[pg.Vector, env.Env]], error) {
	s := configure(opts)
	sys, err := unfoldPrograms(ctx, pgs, s)
	if err != nil {
		return nil, err
	}
	return verify(ctx, sys, aut, s)
}
