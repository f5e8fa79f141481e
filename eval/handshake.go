package eval

import (
	"fmt"
	"regexp"
	"strings"

	"gofvm/env"
)

var (
	handshakeSend    = regexp.MustCompile(`^\s*(_\w+)\s*!\s*([^|]+?)\s*$`)
	handshakeReceive = regexp.MustCompile(`^\s*(_\w+)\s*\?\s*([A-Za-z]\w*)\s*$`)
)

// Handshake interprets rendezvous channels, whose names start with an
// underscore. A lone "_c!e" or "_c?x" is one-sided and can only happen
// together with its counterpart in another program graph, as the combined
// action "_c!e|_c?x". The combined action assigns the value of e to x.
//
// Handshake also decides which actions of two program graphs synchronise
// when they are interleaved.
type Handshake struct{}

var _ ActionDef = Handshake{}

func (Handshake) IsOneSided(action string) bool {
	return handshakeSend.MatchString(action) || handshakeReceive.MatchString(action)
}

// Match reports whether the two one-sided actions are the two ends of the
// same channel.
func (h Handshake) Match(a1, a2 string) bool {
	_, _, ok := h.split(a1 + "|" + a2)
	return ok
}

func (Handshake) Combine(a1, a2 string) string {
	return a1 + "|" + a2
}

// Conjoin combines the guards of two synchronising transitions.
func (Handshake) Conjoin(c1, c2 string) string {
	c1, c2 = strings.TrimSpace(c1), strings.TrimSpace(c2)
	switch {
	case c1 == "":
		return c2
	case c2 == "":
		return c1
	default:
		return "(" + c1 + ") && (" + c2 + ")"
	}
}

func (h Handshake) IsMatchingAction(action string) bool {
	if h.IsOneSided(action) {
		return true
	}
	_, _, ok := h.split(action)
	return ok
}

// Effect of a lone one-sided action is always blocked.
func (h Handshake) Effect(e env.Env, action string) (env.Env, bool, error) {
	if h.IsOneSided(action) {
		return env.Env{}, false, nil
	}
	send, receive, ok := h.split(action)
	if !ok {
		return env.Env{}, false, fmt.Errorf("%w: %q is not a handshake", ErrSyntax, action)
	}
	v, err := Eval(e, send[2])
	if err != nil {
		return env.Env{}, false, err
	}
	return e.Set(receive[2], v), true, nil
}

// split returns the send and the receive half of a combined action.
func (Handshake) split(action string) ([]string, []string, bool) {
	left, right, found := strings.Cut(action, "|")
	if !found {
		return nil, nil, false
	}
	if handshakeReceive.MatchString(left) {
		left, right = right, left
	}
	send := handshakeSend.FindStringSubmatch(left)
	receive := handshakeReceive.FindStringSubmatch(right)
	if send == nil || receive == nil || send[1] != receive[1] {
		return nil, nil, false
	}
	return send, receive, true
}
