package env

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

// Env maps variable names to values.
//
// The zero Env is the empty environment. Every update returns a new Env.
// Entries are kept sorted by name, which makes == structural equality.
type Env struct {
	enc string
}

type nameComparer struct{}

var _ immutable.Comparer[string] = nameComparer{}

func (nameComparer) Compare(a, b string) int {
	return strings.Compare(a, b)
}

func NewMap() *immutable.SortedMap[string, Value] {
	return immutable.NewSortedMap[string, Value](nameComparer{})
}

// FromMap creates an environment with the entries of m.
func FromMap(m *immutable.SortedMap[string, Value]) Env {
	var buf []byte
	it := m.Iterator()
	for !it.Done() {
		name, v, _ := it.Next()
		buf = appendEntry(buf, name, v)
	}
	return Env{enc: string(buf)}
}

// Of creates an environment holding the given entries.
func Of(entries map[string]Value) Env {
	m := NewMap()
	for name, v := range entries {
		m = m.Set(name, v)
	}
	return FromMap(m)
}

// Map returns the entries of the environment as a sorted map.
func (e Env) Map() *immutable.SortedMap[string, Value] {
	builder := immutable.NewSortedMapBuilder[string, Value](nameComparer{})
	e.Range(func(name string, v Value) bool {
		builder.Set(name, v)
		return true
	})
	return builder.Map()
}

// Range calls f for every entry in name order until f returns false.
func (e Env) Range(f func(name string, v Value) bool) {
	for rest := []byte(e.enc); len(rest) > 0; {
		name, v, n := consumeEntry(rest)
		if !f(name, v) {
			return
		}
		rest = rest[n:]
	}
}

func (e Env) Get(name string) (Value, bool) {
	var (
		found Value
		ok    bool
	)
	e.Range(func(n string, v Value) bool {
		if n == name {
			found, ok = v, true
		}
		// entries are sorted so the search can stop early
		return n < name
	})
	return found, ok
}

func (e Env) Set(name string, v Value) Env {
	return FromMap(e.Map().Set(name, v))
}

func (e Env) Delete(name string) Env {
	return FromMap(e.Map().Delete(name))
}

func (e Env) Len() int {
	count := 0
	e.Range(func(string, Value) bool {
		count++
		return true
	})
	return count
}

func (e Env) IsEmpty() bool {
	return e.enc == ""
}

func (e Env) Names() []string {
	names := []string{}
	e.Range(func(name string, _ Value) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Entries returns one "name = value" string per entry in name order.
func (e Env) Entries() []string {
	entries := []string{}
	e.Range(func(name string, v Value) bool {
		entries = append(entries, name+" = "+v.String())
		return true
	})
	return entries
}

func (e Env) String() string {
	return "{" + strings.Join(e.Entries(), ", ") + "}"
}
