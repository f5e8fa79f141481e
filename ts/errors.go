package ts

import "errors"

var (
	ErrStateNotFound       = errors.New("ts: state is not part of the transition system")
	ErrActionNotFound      = errors.New("ts: action is not part of the transition system")
	ErrPropositionNotFound = errors.New("ts: atomic proposition is not part of the transition system")
	ErrInvalidTransition   = errors.New("ts: transition references an undeclared state or action")

	// Returned when removing a state, action or atomic proposition that a
	// transition, a label or the initial states still refer to.
	ErrStillReferenced = errors.New("ts: element is still referenced")
)
