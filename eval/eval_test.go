package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofvm/env"
)

func TestExpressions(t *testing.T) {
	e := env.Env{}.Set("x", env.Int(2)).Set("done", env.False).Set("name", env.String("a"))
	tests := []struct {
		cond     string
		expected bool
	}{
		{"x < 3", true},
		{"x == 2 && !done", true},
		{"(x + 1) * 2 == 6", true},
		{"x % 2 == 1", false},
		{"done || x >= 2", true},
		{`name == "a"`, true},
		{`name + "b" == "ab"`, true},
		{"len(c) == 0", true},
		{"-x < 0", true},
		{"false && y", false},
	}
	for i, test := range tests {
		ok, err := Expressions{}.Evaluate(e, test.cond)
		require.NoError(t, err, "Test %v: %v", i, test.cond)
		assert.Equal(t, test.expected, ok, "Test %v: %v", i, test.cond)
	}
}

func TestExpressionErrors(t *testing.T) {
	e := env.Env{}.Set("x", env.Int(2))
	_, err := Expressions{}.Evaluate(e, "y > 1")
	assert.ErrorIs(t, err, ErrUnboundVariable)
	_, err = Expressions{}.Evaluate(e, "x +")
	assert.ErrorIs(t, err, ErrSyntax)
	_, err = Expressions{}.Evaluate(e, "x + 1")
	assert.ErrorIs(t, err, ErrType)
	_, err = Expressions{}.Evaluate(e, "x / 0 == 1")
	assert.ErrorIs(t, err, ErrType)
}

func TestAssignments(t *testing.T) {
	a := Assignments{}
	assert.True(t, a.IsMatchingAction("x := 1"))
	assert.True(t, a.IsMatchingAction("atomic{x := 1; y := x + 1}"))
	assert.True(t, a.IsMatchingAction("x++"))
	assert.False(t, a.IsMatchingAction("c!1"))
	assert.False(t, a.IsMatchingAction("skip"))
	assert.False(t, a.IsMatchingAction(""))

	e, ok, err := a.Effect(env.Env{}, "atomic{x := 1; y := x + 1}")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, env.Env{}.Set("x", env.Int(1)).Set("y", env.Int(2)), e)

	e, ok, err = a.Effect(e, "x, y = y, x; x++")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, env.Env{}.Set("x", env.Int(3)).Set("y", env.Int(1)), e)

	_, _, err = a.Effect(env.Env{}, "x := z")
	assert.ErrorIs(t, err, ErrUnboundVariable)
}

func TestChannels(t *testing.T) {
	c := Channels{Capacity: 1}
	assert.True(t, c.IsMatchingAction("c!x+1"))
	assert.True(t, c.IsMatchingAction("c?y"))
	assert.False(t, c.IsMatchingAction("_c!1"))

	e := env.Env{}.Set("x", env.Int(1))
	_, ok, err := c.Effect(e, "c?y")
	require.NoError(t, err)
	assert.False(t, ok, "receiving from an empty channel is blocked")

	e, ok, err = c.Effect(e, "c!x+1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = c.Effect(e, "c!x")
	require.NoError(t, err)
	assert.False(t, ok, "sending to a full channel is blocked")

	e, ok, err = c.Effect(e, "c?y")
	require.NoError(t, err)
	require.True(t, ok)
	y, _ := e.Get("y")
	assert.Equal(t, env.Int(2), y)
	buffer, _ := e.Get("c")
	assert.Equal(t, env.Tuple(), buffer)
}

func TestHandshake(t *testing.T) {
	h := Handshake{}
	assert.True(t, h.IsOneSided("_c!x"))
	assert.True(t, h.IsOneSided("_c?y"))
	assert.False(t, h.IsOneSided("_c!x|_c?y"))
	assert.True(t, h.Match("_c!x", "_c?y"))
	assert.True(t, h.Match("_c?y", "_c!x"))
	assert.False(t, h.Match("_c!x", "_d?y"))
	assert.False(t, h.Match("_c!x", "_c!y"))

	e := env.Env{}.Set("x", env.Int(7))
	next, ok, err := h.Effect(e, h.Combine("_c?y", "_c!x"))
	require.NoError(t, err)
	require.True(t, ok)
	y, _ := next.Get("y")
	assert.Equal(t, env.Int(7), y)

	_, ok, err = h.Effect(e, "_c!x")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "(a) && (b)", h.Conjoin("a", "b"))
	assert.Equal(t, "b", h.Conjoin(" ", "b"))
}

func TestEvaluators(t *testing.T) {
	ev := Default()

	ok, err := ev.Evaluate(env.Env{}, "")
	require.NoError(t, err)
	assert.True(t, ok)

	e, err := ev.Initialize([]string{"x := 1", "skip", "y := x * 3"})
	require.NoError(t, err)
	assert.Equal(t, env.Env{}.Set("x", env.Int(1)).Set("y", env.Int(3)), e)

	_, err = ev.Initialize([]string{"c?x"})
	assert.ErrorIs(t, err, ErrBlocked)

	next, ok, err := ev.Effect(e, "skip")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, e, next)

	def, found := ev.Match("_c!1|_c?z")
	require.True(t, found)
	assert.IsType(t, Handshake{}, def)
}
