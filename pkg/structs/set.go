package structs

import (
	"iter"
	"sort"

	"golang.org/x/exp/constraints"
)

type empty = struct{}

// Set — a plain hash set for values of type T
type Set[T comparable] map[T]empty

// NewSet creates a set pre-populated with the given values
func NewSet[T comparable](values ...T) Set[T] {
	res := make(Set[T], len(values))
	for _, v := range values {
		res[v] = empty{}
	}
	return res
}

// Add inserts an element
func (s Set[T]) Add(value T) {
	s[value] = empty{}
}

// Contains reports whether the element is present
func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

// Size returns the number of elements
func (s Set[T]) Size() int {
	return len(s)
}

// Slice returns all elements in unspecified order
func (s Set[T]) Slice() []T {
	values := make([]T, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	return values
}

func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// Clone creates a shallow copy
func (s Set[T]) Clone() Set[T] {
	clone := make(Set[T], len(s))
	for v := range s {
		clone[v] = empty{}
	}
	return clone
}

// Union combines the current set with another into a new set
func (s Set[T]) Union(other Set[T]) Set[T] {
	result := s.Clone()
	for v := range other {
		result[v] = empty{}
	}
	return result
}

// Intersect returns the intersection of two sets
func (s Set[T]) Intersect(other Set[T]) Set[T] {
	result := NewSet[T]()
	for v := range s {
		if _, ok := other[v]; ok {
			result[v] = empty{}
		}
	}
	return result
}

// Difference returns the elements present in s but not in other
func (s Set[T]) Difference(other Set[T]) Set[T] {
	result := NewSet[T]()
	for v := range s {
		if _, ok := other[v]; !ok {
			result[v] = empty{}
		}
	}
	return result
}

// IsSubsetOf reports whether every element of s is in other
func (s Set[T]) IsSubsetOf(other Set[T]) bool {
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold exactly the same elements
func (s Set[T]) Equal(other Set[T]) bool {
	return len(s) == len(other) && s.IsSubsetOf(other)
}

// Sorted returns the elements of an ordered-typed set in ascending order
func Sorted[T constraints.Ordered](s Set[T]) []T {
	values := s.Slice()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
