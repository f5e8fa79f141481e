// Package unfold turns program graphs and circuits into transition systems.
package unfold

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gofvm/env"
	"gofvm/eval"
	"gofvm/pg"
	"gofvm/set"
	"gofvm/ts"
)

var ErrStateLimit = errors.New("unfold: state limit exceeded")

// ProgramGraph computes every (location, environment) pair reachable from the
// initial locations and the initial environments of g.
//
// The initial environments are obtained by applying the statements of each
// initialization to the empty environment. A transition is taken when its
// condition holds. Actions no evaluator matches leave the environment
// unchanged, blocked actions have no successor.
//
// Each state is labeled with its location and one "name = value" proposition
// per variable. Locations with several parts contribute one proposition per part.
func ProgramGraph[L comparable](
	ctx context.Context,
	g *pg.ProgramGraph[L],
	evaluators eval.Evaluators,
	opts ...Option,
) (*ts.TransitionSystem[ts.Pair[L, env.Env], string, string], error) {
	var (
		maxStates = 0
		log       = zap.NewNop()
	)
	for _, opt := range opts {
		switch t := opt.(type) {
		case maxStatesOption:
			maxStates = t.n
		case loggerOption:
			log = t.log
		}
	}

	initialEnvs := set.NewOrdered[env.Env]()
	for _, init := range g.Initializations() {
		e, err := evaluators.Initialize(init)
		if err != nil {
			return nil, fmt.Errorf("unfold %v: %w", g.Name, err)
		}
		initialEnvs.Add(e)
	}
	if initialEnvs.Len() == 0 {
		initialEnvs.Add(env.Env{})
	}

	sys := ts.New[ts.Pair[L, env.Env], string, string](g.Name)
	for _, t := range g.Transitions() {
		sys.AddAction(t.Action)
	}

	stack := []ts.Pair[L, env.Env]{}
	discover := func(s ts.Pair[L, env.Env]) error {
		if sys.HasState(s) {
			return nil
		}
		if maxStates > 0 && sys.NumStates() >= maxStates {
			return fmt.Errorf("%w: more than %v states in %v", ErrStateLimit, maxStates, g.Name)
		}
		sys.AddState(s)
		stack = append(stack, s)
		return nil
	}

	for _, e := range initialEnvs.Items() {
		for _, l := range g.InitialLocations() {
			s := ts.PairOf(l, e)
			if err := discover(s); err != nil {
				return nil, err
			}
			must(sys.SetInitial(s, true))
		}
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("unfold %v: %w", g.Name, err)
		}
		from := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, t := range g.Outgoing(from.First) {
			enabled, err := evaluators.Evaluate(from.Second, t.Condition)
			if err != nil {
				return nil, fmt.Errorf("unfold %v at %v: %w", g.Name, from, err)
			}
			if !enabled {
				continue
			}
			next, ok, err := evaluators.Effect(from.Second, t.Action)
			if err != nil {
				return nil, fmt.Errorf("unfold %v at %v: %w", g.Name, from, err)
			}
			if !ok {
				continue
			}
			to := ts.PairOf(t.To, next)
			if err := discover(to); err != nil {
				return nil, err
			}
			must(sys.AddTransition(ts.Transition[ts.Pair[L, env.Env], string]{From: from, Action: t.Action, To: to}))
		}
	}

	for _, s := range sys.States() {
		for _, p := range propositions(s) {
			sys.AddProposition(p)
			must(sys.AddLabel(s, p))
		}
	}

	log.Debug("Unfolded program graph",
		zap.String("name", g.Name),
		zap.Int("states", sys.NumStates()),
		zap.Int("transitions", sys.NumTransitions()),
		zap.Int("initialEnvironments", initialEnvs.Len()),
	)
	return sys, nil
}

func propositions[L comparable](s ts.Pair[L, env.Env]) []string {
	var props []string
	if c, ok := any(s.First).(pg.Composite); ok {
		props = append(props, c.Elements()...)
	} else {
		props = append(props, fmt.Sprint(s.First))
	}
	return append(props, s.Second.Entries()...)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
