package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvIsComparable(t *testing.T) {
	a := Env{}.Set("x", Int(1)).Set("y", Bool(true))
	b := Env{}.Set("y", Bool(true)).Set("x", Int(1))
	assert.Equal(t, a, b)
	assert.True(t, a == b)

	c := b.Set("x", Int(2))
	assert.False(t, a == c)
	assert.Equal(t, Int(1), must(t, a, "x"))

	seen := map[Env]bool{a: true}
	assert.True(t, seen[b])
}

func TestEnvOperations(t *testing.T) {
	e := Of(map[string]Value{"b": Int(-4), "a": String("hi"), "c": Tuple(Int(1), Int(2))})
	assert.Equal(t, []string{"a", "b", "c"}, e.Names())
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, `{a = "hi", b = -4, c = <1, 2>}`, e.String())
	assert.Equal(t, []string{`a = "hi"`, "b = -4", "c = <1, 2>"}, e.Entries())

	_, ok := e.Get("z")
	assert.False(t, ok)

	e = e.Delete("a")
	assert.Equal(t, []string{"b", "c"}, e.Names())
	assert.True(t, Env{}.IsEmpty())
	assert.Equal(t, "{}", Env{}.String())
}

func TestTuple(t *testing.T) {
	empty := Tuple()
	_, _, ok := empty.Head()
	assert.False(t, ok)

	q := empty.Append(Int(1)).Append(String("x"))
	assert.Equal(t, Tuple(Int(1), String("x")), q)
	assert.Equal(t, 2, q.Len())

	head, rest, ok := q.Head()
	require.True(t, ok)
	assert.Equal(t, Int(1), head)
	assert.Equal(t, Tuple(String("x")), rest)
}

func TestValueTypeErrors(t *testing.T) {
	assert.Panics(t, func() { Int(1).AsBool() })
	assert.Panics(t, func() { String("a").AsInt() })
	assert.Equal(t, int64(-7), Int(-7).AsInt())
	assert.True(t, True.AsBool())
	assert.False(t, Value{}.IsValid())
}

func must(t *testing.T, e Env, name string) Value {
	v, ok := e.Get(name)
	require.True(t, ok, "missing %v in %v", name, e)
	return v
}
