// Package eval defines how the condition and action texts of a program graph
// are given meaning.
//
// A ConditionDef decides guards, an ActionDef computes the effect of an action
// on an environment. Both are registered explicitly in an Evaluators value
// and tried in registration order.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"gofvm/env"
)

var (
	ErrSyntax          = errors.New("eval: syntax error")
	ErrUnboundVariable = errors.New("eval: unbound variable")
	ErrType            = errors.New("eval: type error")
	ErrBlocked         = errors.New("eval: initialization is blocked")
)

type ConditionDef interface {
	// Evaluate reports whether the condition holds in the environment.
	Evaluate(e env.Env, cond string) (bool, error)
}

type ActionDef interface {
	IsMatchingAction(action string) bool
	// Effect applies the action to the environment.
	// Returns false if the action is not enabled in the environment.
	Effect(e env.Env, action string) (env.Env, bool, error)
}

// Evaluators is an ordered collection of condition and action definitions.
type Evaluators struct {
	Conditions []ConditionDef
	Actions    []ActionDef
}

// Default returns the built in definitions: handshake channels, buffered
// channels and assignments as actions, and expressions as conditions.
func Default() Evaluators {
	return Evaluators{
		Conditions: []ConditionDef{Expressions{}},
		Actions:    []ActionDef{Handshake{}, Channels{}, Assignments{}},
	}
}

// Evaluate reports whether any condition definition accepts the condition.
// The empty condition always holds.
func (ev Evaluators) Evaluate(e env.Env, cond string) (bool, error) {
	if strings.TrimSpace(cond) == "" {
		return true, nil
	}
	for _, def := range ev.Conditions {
		ok, err := def.Evaluate(e, cond)
		if err != nil {
			return false, fmt.Errorf("condition %q: %w", cond, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Match returns the first action definition that accepts the action.
func (ev Evaluators) Match(action string) (ActionDef, bool) {
	for _, def := range ev.Actions {
		if def.IsMatchingAction(action) {
			return def, true
		}
	}
	return nil, false
}

// Effect applies the action using the first matching definition.
// An action no definition matches leaves the environment unchanged.
func (ev Evaluators) Effect(e env.Env, action string) (env.Env, bool, error) {
	def, ok := ev.Match(action)
	if !ok {
		return e, true, nil
	}
	next, enabled, err := def.Effect(e, action)
	if err != nil {
		return env.Env{}, false, fmt.Errorf("action %q: %w", action, err)
	}
	return next, enabled, nil
}

// Initialize folds the statements over the empty environment.
// Statements no definition matches are skipped.
func (ev Evaluators) Initialize(stmts []string) (env.Env, error) {
	e := env.Env{}
	for _, stmt := range stmts {
		def, ok := ev.Match(stmt)
		if !ok {
			continue
		}
		next, enabled, err := def.Effect(e, stmt)
		if err != nil {
			return env.Env{}, fmt.Errorf("initialization %q: %w", stmt, err)
		}
		if !enabled {
			return env.Env{}, fmt.Errorf("%w: %q", ErrBlocked, stmt)
		}
		e = next
	}
	return e, nil
}
