// Package set provides a small wrapper around a map[T]struct{}.
package set

import (
	"iter"
	"maps"
)

// Set holds each value at most once. The zero value is an empty set ready
// for use.
type Set[T comparable] struct {
	values map[T]struct{}
}

// Insert adds the value to the set. It returns false if the value was
// already present.
func (s *Set[T]) Insert(value T) bool {
	if s.values == nil {
		s.values = make(map[T]struct{})
	}

	if _, exists := s.values[value]; exists {
		return false
	}

	s.values[value] = struct{}{}
	return true
}

// Has reports whether the value is in the set.
func (s *Set[T]) Has(value T) bool {
	_, exists := s.values[value]
	return exists
}

// Values iterates over the values of the set in unspecified order.
func (s *Set[T]) Values() iter.Seq[T] {
	return maps.Keys(s.values)
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int {
	return len(s.values)
}
