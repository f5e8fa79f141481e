// Package set provides the small generic set types shared by the model,
// composition and search packages.
package set

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
)

// Set is an unordered set of comparable values.
type Set[T comparable] map[T]struct{}

// Of creates a set holding the provided items.
func Of[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(items ...T) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

func (s Set[T]) Remove(item T) {
	delete(s, item)
}

func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

// Items returns the members of the set in no particular order.
func (s Set[T]) Items() []T {
	return maps.Keys(s)
}

func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return Set[T]{}
	}
	return maps.Clone(s)
}

func (s Set[T]) Equal(other Set[T]) bool {
	return maps.Equal(s, other)
}

// Returns true if every member of s is a member of other.
func (s Set[T]) SubsetOf(other Set[T]) bool {
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

func (s Set[T]) Union(other Set[T]) Set[T] {
	out := s.Clone()
	maps.Copy(out, other)
	return out
}

func (s Set[T]) Intersect(other Set[T]) Set[T] {
	out := Set[T]{}
	for item := range s {
		if other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

func (s Set[T]) Difference(other Set[T]) Set[T] {
	out := Set[T]{}
	for item := range s {
		if !other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

func (s Set[T]) String() string {
	parts := make([]string, 0, len(s))
	for item := range s {
		parts = append(parts, fmt.Sprint(item))
	}
	sortStrings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
