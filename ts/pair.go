package ts

import "fmt"

// Pair is the composite state (or location) built by composition and product
// construction. Two pairs are equal when both components are equal.
type Pair[X, Y comparable] struct {
	First  X
	Second Y
}

func PairOf[X, Y comparable](first X, second Y) Pair[X, Y] {
	return Pair[X, Y]{First: first, Second: second}
}

func (p Pair[X, Y]) String() string {
	return fmt.Sprintf("<%v,%v>", p.First, p.Second)
}

// Elements flattens nested pairs into the textual form of their components.
func (p Pair[X, Y]) Elements() []string {
	return append(elements(p.First), elements(p.Second)...)
}

func elements(v any) []string {
	if c, ok := v.(interface{ Elements() []string }); ok {
		return c.Elements()
	}
	return []string{fmt.Sprint(v)}
}

// Transition is a labeled edge of a transition system.
type Transition[S, A comparable] struct {
	From   S
	Action A
	To     S
}

func (t Transition[S, A]) String() string {
	return fmt.Sprintf("%v -%v-> %v", t.From, t.Action, t.To)
}
