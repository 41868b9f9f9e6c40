package ecs

import "iter"

// Query wraps a View with a cache of matching archetypes. It is meant to be a
// field of a System; the Scheduler initializes it on registration.
type Query[T any] struct {
	view             *View[T]
	storage          *Storage
	cachedArchetypes []*Archetype
	seenArchetypes   int
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.seenArchetypes = 0
}

// refresh appends archetypes created since the last call. Archetypes are
// never removed from a storage, so the cache only grows.
func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("ecs: Query used before Init")
	}
	for _, archetype := range q.storage.order[q.seenArchetypes:] {
		if q.view.matches(archetype) {
			q.cachedArchetypes = append(q.cachedArchetypes, archetype)
		}
	}
	q.seenArchetypes = len(q.storage.order)
}

// Iter returns an iterator over the component data of matching entities.
func (q *Query[T]) Iter() iter.Seq[T] {
	q.refresh()
	return q.view.iterArchetypes(q.cachedArchetypes)
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	n := 0
	for range q.Iter() {
		n++
	}
	return n
}

// Single returns the only matching entity. ok is false when zero or more than
// one entity matches.
func (q *Query[T]) Single() (result T, ok bool) {
	found := 0
	for item := range q.Iter() {
		found++
		if found > 1 {
			var zero T
			return zero, false
		}
		result = item
	}
	return result, found == 1
}

// Get returns the view struct for a specific entity, or nil.
func (q *Query[T]) Get(id EntityId) *T {
	q.refresh()
	return q.view.Get(id)
}
