package set

import "golang.org/x/exp/slices"

// Ordered is a set that remembers insertion order.
//
// Searches iterate over Ordered sets so that repeated runs over the same
// structure visit states in the same order.
type Ordered[T comparable] struct {
	index map[T]int
	items []T
}

func NewOrdered[T comparable](items ...T) *Ordered[T] {
	o := &Ordered[T]{index: make(map[T]int, len(items))}
	for _, item := range items {
		o.Add(item)
	}
	return o
}

// Add inserts the item at the end of the order.
// Returns false if the item was already present.
func (o *Ordered[T]) Add(item T) bool {
	if _, ok := o.index[item]; ok {
		return false
	}
	o.index[item] = len(o.items)
	o.items = append(o.items, item)
	return true
}

func (o *Ordered[T]) Has(item T) bool {
	_, ok := o.index[item]
	return ok
}

func (o *Ordered[T]) Len() int {
	return len(o.items)
}

// Items returns the members in insertion order.
// The returned slice must not be modified.
func (o *Ordered[T]) Items() []T {
	return o.items
}

// Remove deletes the item while keeping the order of the remaining members.
// Returns false if the item was not present.
func (o *Ordered[T]) Remove(item T) bool {
	i, ok := o.index[item]
	if !ok {
		return false
	}
	o.items = slices.Delete(o.items, i, i+1)
	delete(o.index, item)
	for j := i; j < len(o.items); j++ {
		o.index[o.items[j]] = j
	}
	return true
}

// Retain keeps only the members for which keep returns true.
func (o *Ordered[T]) Retain(keep func(T) bool) {
	kept := o.items[:0]
	for _, item := range o.items {
		if keep(item) {
			kept = append(kept, item)
		} else {
			delete(o.index, item)
		}
	}
	for i := len(kept); i < len(o.items); i++ {
		var zero T
		o.items[i] = zero
	}
	o.items = kept
	for i, item := range o.items {
		o.index[item] = i
	}
}

// Set returns an unordered copy of the members.
func (o *Ordered[T]) Set() Set[T] {
	return Of(o.items...)
}

func (o *Ordered[T]) Clone() *Ordered[T] {
	return NewOrdered(o.items...)
}
