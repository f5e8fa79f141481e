package ts

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrNoInitialStates = errors.New("ts: transition system has no initial state")
	ErrDeadlock        = errors.New("ts: reachable state has no outgoing transition")
)

// Validate reports the properties that make a system unfit for checking
// properties over infinite runs: no initial state and reachable terminal
// states. Every problem found is returned, combined with multierr.
func (ts *TransitionSystem[S, A, P]) Validate() error {
	var err error
	if ts.initial.Len() == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %v", ErrNoInitialStates, ts.Name))
	}
	reach := ts.Reach()
	for _, s := range ts.states.Items() {
		if reach.Has(s) && ts.out[s].Len() == 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %v", ErrDeadlock, s))
		}
	}
	return err
}
