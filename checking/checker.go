// Package checking decides whether a product of a model and a property
// automaton has an accepting run.
package checking

import (
	"context"

	"gofvm/ts"
)

// The Checker verifies that no run of the model is accepted by the automaton.
type Checker[S, Q, A comparable] interface {
	// Check the product of the model and the automaton.
	Check(ctx context.Context, product *ts.TransitionSystem[ts.Pair[S, Q], A, Q]) (Result[S], error)
}

// Result is returned by a Checker. It is either Succeeded or Failed.
type Result[S comparable] interface {
	// Create a response.
	//
	// Returns a boolean that is true if the property holds, false otherwise.
	// Returns a string describing the response.
	// If the property is violated it includes the counterexample.
	Response() (bool, string)

	// Export the counterexample
	//
	// If the property is violated it returns the prefix followed by one
	// iteration of the cycle. Otherwise it returns an empty slice.
	Export() []S

	result()
}
