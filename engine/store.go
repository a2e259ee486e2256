package engine

import (
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
)

// Store is a generic arena for a specific component type T
// Iteration follows insertion order so per-tick updates stay deterministic
type Store[T any] struct {
	index    map[core.Entity]int
	entities []core.Entity
	items    []T
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index:    make(map[core.Entity]int),
		entities: make([]core.Entity, 0, 64),
		items:    make([]T, 0, 64),
	}
}

// Set inserts or replaces the component for an entity
func (s *Store[T]) Set(e core.Entity, val T) {
	if i, ok := s.index[e]; ok {
		s.items[i] = val
		return
	}
	s.index[e] = len(s.items)
	s.entities = append(s.entities, e)
	s.items = append(s.items, val)
}

// Get returns a pointer to the stored component for in-place mutation
// The pointer is invalidated by the next Set or Remove
func (s *Store[T]) Get(e core.Entity) (*T, bool) {
	i, ok := s.index[e]
	if !ok {
		return nil, false
	}
	return &s.items[i], true
}

// Has checks if entity has this component
func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Remove deletes an entity, preserving the order of the rest
func (s *Store[T]) Remove(e core.Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	delete(s.index, e)

	copy(s.entities[i:], s.entities[i+1:])
	s.entities = s.entities[:len(s.entities)-1]

	var zero T
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]

	for j := i; j < len(s.entities); j++ {
		s.index[s.entities[j]] = j
	}
	return true
}

// Entities returns a copy of all entities in insertion order
// Safe to iterate while removing
func (s *Store[T]) Entities() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// Len returns number of stored components
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Clear removes all components
func (s *Store[T]) Clear() {
	s.index = make(map[core.Entity]int)
	s.entities = s.entities[:0]
	s.items = s.items[:0]
}
