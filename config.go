package gofvm

import (
	"io"
	"runtime"

	"gofvm/compose"
	"gofvm/eval"

	"go.uber.org/zap"
)

type Option interface{}

type settings struct {
	log         *zap.Logger
	maxStates   int
	evaluators  eval.Evaluators
	sync        compose.Synchronizer
	searchTree  io.Writer
	concurrency int
}

func configure(opts []Option) settings {
	s := settings{
		log:        zap.NewNop(),
		evaluators: eval.Default(),
		sync:       eval.Handshake{},
		// Will not change GOMAXPROCS but only return the current value
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		switch t := opt.(type) {
		case loggerOption:
			s.log = t.log
		case maxStatesOption:
			s.maxStates = t.n
		case evaluatorsOption:
			s.evaluators = t.ev
		case synchronizerOption:
			s.sync = t.sync
		case searchTreeOption:
			s.searchTree = t.w
		case concurrencyOption:
			s.concurrency = t.n
		}
	}
	return s
}

type loggerOption struct{ log *zap.Logger }

// Log the stages of the verification to log.
//
// Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return loggerOption{log: log}
}

type maxStatesOption struct{ n int }

// Configure the maximum number of states an unfolded program graph may have.
//
// Default value is 0, no limit.
func WithMaxStates(n int) Option {
	return maxStatesOption{n: n}
}

type evaluatorsOption struct{ ev eval.Evaluators }

// Use the provided evaluators to interpret conditions and actions of program graphs.
//
// Default value is eval.Default().
func WithEvaluators(ev eval.Evaluators) Option {
	return evaluatorsOption{ev: ev}
}

type synchronizerOption struct{ sync compose.Synchronizer }

// Configure which actions of composed program graphs synchronise.
//
// Default value is eval.Handshake. A nil synchronizer interleaves every action.
func WithSynchronizer(sync compose.Synchronizer) Option {
	return synchronizerOption{sync: sync}
}

type searchTreeOption struct{ w io.Writer }

// Write the search tree of the emptiness check to w in Newick format.
//
// VerifyAll only writes them when WithConcurrency(1) is set or there is a
// single automaton. Concurrent checks do not export their search trees.
func WithSearchTree(w io.Writer) Option {
	return searchTreeOption{w: w}
}

type concurrencyOption struct{ n int }

// Configure the number of properties that are checked at the same time.
//
// Default value is GOMAXPROCS
func WithConcurrency(n int) Option {
	return concurrencyOption{n: n}
}
