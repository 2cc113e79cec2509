package ecs

import "fmt"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a dense typed column: values live in one contiguous slice so
// per-frame loops stream memory linearly, with a parallel slice of owning
// ids and a sparse table keyed by entity index mapping ids to dense slots.
// Lookups verify the stored id, so a stale (re-generationed) reference
// misses instead of aliasing the slot's next occupant.
//
// Dense slots are stable within a frame, since structural changes are
// deferred to the frame barrier, which lets parallel stages walk disjoint
// index ranges of a column without coordination.
type Store[T any] struct {
	sparse []int32    // entity index -> dense slot, -1 when absent
	ids    []EntityID // dense slot -> owning entity
	data   []T        // dense slot -> component value
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		sparse: make([]int32, 0, 1024),
		ids:    make([]EntityID, 0, 1024),
		data:   make([]T, 0, 1024),
	}
}

// Set adds or overwrites the component for id.
func (s *Store[T]) Set(id EntityID, v T) {
	idx := id.Index()
	for int(idx) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if slot := s.sparse[idx]; slot >= 0 {
		// Same entity index, possibly a newer generation of it.
		s.ids[slot] = id
		s.data[slot] = v
		return
	}
	s.sparse[idx] = int32(len(s.ids))
	s.ids = append(s.ids, id)
	s.data = append(s.data, v)
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	idx := id.Index()
	if int(idx) >= len(s.sparse) {
		return nil, false
	}
	slot := s.sparse[idx]
	if slot < 0 || s.ids[slot] != id {
		return nil, false
	}
	return &s.data[slot], true
}

// MustGet returns the component for id, panicking when absent. Stages use it
// for columns their signature guarantees; a panic here is a wiring bug, not
// a runtime condition.
func (s *Store[T]) MustGet(id EntityID) *T {
	v, ok := s.Get(id)
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: no %T for entity %d (index %d, generation %d)",
			zero, id, id.Index(), id.Generation()))
	}
	return v
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *Store[T]) Len() int { return len(s.ids) }

// At returns the entity and component at dense slot i. Stage loops walk a
// column by index range through it.
func (s *Store[T]) At(i int) (EntityID, *T) {
	return s.ids[i], &s.data[i]
}

// Remove drops the component for id, swapping the last dense entry into the
// vacated slot.
func (s *Store[T]) Remove(id EntityID) {
	idx := id.Index()
	if int(idx) >= len(s.sparse) {
		return
	}
	slot := s.sparse[idx]
	if slot < 0 || s.ids[slot] != id {
		return
	}
	last := int32(len(s.ids) - 1)
	if slot != last {
		moved := s.ids[last]
		s.ids[slot] = moved
		s.data[slot] = s.data[last]
		s.sparse[moved.Index()] = slot
	}
	s.ids = s.ids[:last]
	s.data = s.data[:last]
	s.sparse[idx] = -1
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := range s.ids {
		fn(s.ids[i], &s.data[i])
	}
}
