package eval

import (
	"fmt"
	"regexp"

	"gofvm/env"
)

var (
	sendAction    = regexp.MustCompile(`^\s*([A-Za-z]\w*)\s*!\s*(.+?)\s*$`)
	receiveAction = regexp.MustCompile(`^\s*([A-Za-z]\w*)\s*\?\s*([A-Za-z]\w*)\s*$`)
)

// Channels interprets asynchronous channel actions. "c!e" appends the value of
// e to the buffer held in variable c, "c?x" removes the oldest value of c and
// assigns it to x.
//
// Receiving from an empty channel is blocked. When Capacity is positive,
// sending to a full channel is blocked as well.
type Channels struct {
	Capacity int
}

var _ ActionDef = Channels{}

func (Channels) IsMatchingAction(action string) bool {
	return sendAction.MatchString(action) || receiveAction.MatchString(action)
}

func (c Channels) Effect(e env.Env, action string) (env.Env, bool, error) {
	if m := receiveAction.FindStringSubmatch(action); m != nil {
		buffer, err := channel(e, m[1])
		if err != nil {
			return env.Env{}, false, err
		}
		head, rest, ok := buffer.Head()
		if !ok {
			return env.Env{}, false, nil
		}
		return e.Set(m[1], rest).Set(m[2], head), true, nil
	}

	m := sendAction.FindStringSubmatch(action)
	if m == nil {
		return env.Env{}, false, fmt.Errorf("%w: %q is not a channel action", ErrSyntax, action)
	}
	buffer, err := channel(e, m[1])
	if err != nil {
		return env.Env{}, false, err
	}
	if c.Capacity > 0 && buffer.Len() >= c.Capacity {
		return env.Env{}, false, nil
	}
	v, err := Eval(e, m[2])
	if err != nil {
		return env.Env{}, false, err
	}
	return e.Set(m[1], buffer.Append(v)), true, nil
}

func channel(e env.Env, name string) (env.Value, error) {
	v, ok := e.Get(name)
	if !ok {
		return env.Tuple(), nil
	}
	if !v.IsTuple() {
		return env.Value{}, fmt.Errorf("%w: %v is not a channel", ErrType, name)
	}
	return v, nil
}
