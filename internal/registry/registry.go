// Package registry provides an append-only, insertion-ordered collection of
// named entries.
package registry

import "iter"

// Registry holds entries by pointer so that growing the index never moves an
// entry that is referenced elsewhere. Capacity starts at one and doubles.
//
// Add does not check for an existing entry with the same name; callers that
// need one entry per name must Find first.
type Registry[T any] struct {
	key     func(*T) string
	entries []*T
	first   map[string]int
}

// New creates an empty registry keyed by key.
func New[T any](key func(*T) string) *Registry[T] {
	return &Registry[T]{
		key:     key,
		entries: make([]*T, 0, 1),
		first:   make(map[string]int),
	}
}

// Add appends entry and returns its index.
func (r *Registry[T]) Add(entry *T) int {
	if len(r.entries) == cap(r.entries) {
		r.grow()
	}
	idx := len(r.entries)
	r.entries = append(r.entries, entry)

	name := r.key(entry)
	if _, ok := r.first[name]; !ok {
		r.first[name] = idx
	}
	return idx
}

func (r *Registry[T]) grow() {
	next := cap(r.entries) * 2
	if next == 0 {
		next = 1
	}
	grown := make([]*T, len(r.entries), next)
	copy(grown, r.entries)
	r.entries = grown
}

// Find returns the first entry added under name.
func (r *Registry[T]) Find(name string) (*T, bool) {
	idx, ok := r.first[name]
	if !ok {
		return nil, false
	}
	return r.entries[idx], true
}

// At returns the entry at index i.
func (r *Registry[T]) At(i int) *T {
	return r.entries[i]
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Cap returns the current capacity of the index.
func (r *Registry[T]) Cap() int {
	return cap(r.entries)
}

// All yields entries in insertion order.
func (r *Registry[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i, e := range r.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
