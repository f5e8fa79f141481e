// Package tree records search trees, such as the spanning tree of a depth
// first search, and exports them in Newick format.
package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Tree[T comparable] struct {
	payload  T
	parent   *Tree[T]
	children []*Tree[T]
	depth    int
}

func New[T comparable](payload T) *Tree[T] {
	return &Tree[T]{
		payload:  payload,
		children: []*Tree[T]{},
	}
}

// Returns the total number of elements in the tree
func (t *Tree[T]) Len() int {
	len := 1
	for _, child := range t.children {
		len += child.Len()
	}
	return len
}

// Adds a new child with the provided payload as a child of the current Tree
// Returns the child when done
func (t *Tree[T]) AddChild(payload T) *Tree[T] {
	node := &Tree[T]{
		payload:  payload,
		parent:   t,
		children: []*Tree[T]{},
		depth:    t.depth + 1,
	}
	t.children = append(t.children, node)
	return node
}

// Path returns the payloads from the root down to this node.
func (t *Tree[T]) Path() []T {
	path := make([]T, t.depth+1)
	for node := t; node != nil; node = node.parent {
		path[node.depth] = node.payload
	}
	return path
}

func (t *Tree[T]) String() string {
	out := strings.Builder{}
	out.WriteString(strings.Repeat("-", t.depth))
	out.WriteString(fmt.Sprintf("%v\n", t.payload))
	for _, child := range t.children {
		out.WriteString(child.String())
	}
	return out.String()
}

func (t *Tree[T]) IsRoot() bool { return t.parent == nil }
func (t *Tree[T]) Payload() T   { return t.payload }

func (t *Tree[T]) Newick() string {
	out := strings.Builder{}
	if len(t.children) > 0 {
		out.WriteString("(")
		for i, child := range t.children {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(child.Newick())
		}
		out.WriteString(")")
	}
	out.WriteString(strconv.Quote(fmt.Sprint(t.payload)))
	if t.IsRoot() {
		out.WriteString(";")
	}
	return out.String()
}

// Forest is an ordered collection of trees, one per search root.
type Forest[T comparable] struct {
	Roots []*Tree[T]
}

func (f *Forest[T]) AddRoot(payload T) *Tree[T] {
	root := New(payload)
	f.Roots = append(f.Roots, root)
	return root
}

func (f *Forest[T]) Len() int {
	len := 0
	for _, root := range f.Roots {
		len += root.Len()
	}
	return len
}

// WriteNewick writes every tree of the forest in Newick format, one per line.
func (f *Forest[T]) WriteNewick(w io.Writer) error {
	for _, root := range f.Roots {
		if _, err := fmt.Fprintln(w, root.Newick()); err != nil {
			return err
		}
	}
	return nil
}
