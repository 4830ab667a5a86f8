package ecs

import "iter"

// Query is a View whose matches are captured once per frame. Systems hold
// Query fields; the Scheduler binds them on Register and calls Execute right
// before the owning system runs, so the system can queue Commands freely
// while it replays the snapshot.
type Query[T any] struct {
	view  *View[T]
	rows  []queryRow[T]
	ready bool
}

type queryRow[T any] struct {
	entity Entity
	item   T
}

// NewQuery creates a Query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any snapshot.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.rows = q.rows[:0]
	q.ready = false
}

// Execute captures the current matches.
func (q *Query[T]) Execute() {
	clear(q.rows)
	q.rows = q.rows[:0]
	for e, item := range q.view.Iter() {
		q.rows = append(q.rows, queryRow[T]{entity: e, item: item})
	}
	q.ready = true
}

// Invalidate drops the snapshot; Iter and Values panic until the next
// Execute.
func (q *Query[T]) Invalidate() {
	q.ready = false
}

// Len returns the number of captured matches.
func (q *Query[T]) Len() int {
	return len(q.rows)
}

// Iter replays the snapshot in view order.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	q.mustBeReady("Iter")
	return func(yield func(Entity, T) bool) {
		for _, row := range q.rows {
			if !yield(row.entity, row.item) {
				return
			}
		}
	}
}

// Values replays the snapshot without entities.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeReady("Values")
	return func(yield func(T) bool) {
		for _, row := range q.rows {
			if !yield(row.item) {
				return
			}
		}
	}
}

func (q *Query[T]) mustBeReady(op string) {
	if !q.ready {
		panic("Query." + op + "() called before Query.Execute()")
	}
}
