// Package order provides the visit orders that parameterize how each layout
// pass walks the commit graph.
//
// Every order holds a sequence of pending items. Pushing a batch prepends it,
// keeping the batch's own order, so the walk is depth first and favours the
// leftmost branch from the heads. The orders differ in how they treat items
// that were already pushed:
//
//   - [LeftmostFirst] drops items it has seen before; each item is walked once.
//   - [RowOrder] keeps duplicates and only yields an item once a readiness
//     predicate accepts it. Items popped while not ready are dropped and must
//     be pushed again by whoever makes them ready.
//   - [ColumnOrder] behaves like LeftmostFirst but sorts every pushed batch
//     with a caller supplied comparison first.
//
// The orders are generic so the history package can use them with its own
// handle type.
package order

import (
	"cmp"
	"slices"
)

// LeftmostFirst is a depth-first, leftmost-branch-priority walk where each
// item is yielded at most once.
type LeftmostFirst[T comparable] struct {
	pending []T
	seen    map[T]struct{}
}

// NewLeftmostFirst seeds the walk with items in order.
func NewLeftmostFirst[T comparable](seed []T) *LeftmostFirst[T] {
	v := &LeftmostFirst[T]{seen: make(map[T]struct{}, len(seed))}
	v.Push(seed)
	return v
}

// Push prepends the unseen items of batch, preserving their order.
// Duplicates, within the batch or against earlier pushes, are dropped.
func (v *LeftmostFirst[T]) Push(batch []T) {
	fresh := make([]T, 0, len(batch))
	for _, x := range batch {
		if _, ok := v.seen[x]; ok {
			continue
		}
		v.seen[x] = struct{}{}
		fresh = append(fresh, x)
	}
	v.pending = append(fresh, v.pending...)
}

// Pop removes and returns the next item.
func (v *LeftmostFirst[T]) Pop() (T, bool) {
	var zero T
	if len(v.pending) == 0 {
		return zero, false
	}
	x := v.pending[0]
	v.pending = v.pending[1:]
	return x, true
}

// Len returns the number of pending items.
func (v *LeftmostFirst[T]) Len() int { return len(v.pending) }

// Seen reports whether x was ever pushed.
func (v *LeftmostFirst[T]) Seen(x T) bool {
	_, ok := v.seen[x]
	return ok
}

// RowOrder yields items only once they are ready.
//
// An item popped while its predicate is false is deferred: it is dropped
// from the pending list and OnDefer, if set, is told about it. The walk
// relies on the item being pushed again later, which is the case for a
// commit whose last unfinished child pushes it on completion.
type RowOrder[T comparable] struct {
	pending []T
	ready   func(T) bool

	// OnDefer observes items dropped because they were not ready.
	OnDefer func(T)
}

// NewRowOrder seeds the walk with items in order.
func NewRowOrder[T comparable](seed []T, ready func(T) bool) *RowOrder[T] {
	v := &RowOrder[T]{ready: ready}
	v.Push(seed)
	return v
}

// Push prepends batch, preserving its order. Duplicates are kept.
func (v *RowOrder[T]) Push(batch []T) {
	if len(batch) == 0 {
		return
	}
	v.pending = append(slices.Clone(batch), v.pending...)
}

// Pop returns the next ready item, deferring the ones that are not.
func (v *RowOrder[T]) Pop() (T, bool) {
	for len(v.pending) > 0 {
		x := v.pending[0]
		v.pending = v.pending[1:]
		if v.ready(x) {
			return x, true
		}
		if v.OnDefer != nil {
			v.OnDefer(x)
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of pending items, ready or not.
func (v *RowOrder[T]) Len() int { return len(v.pending) }

// ColumnOrder is a depth-first walk where each pushed batch is sorted with
// compare before being prepended. Each item is yielded at most once.
type ColumnOrder[T comparable] struct {
	walk    *LeftmostFirst[T]
	compare func(a, b T) int
}

// NewColumnOrder seeds the walk with items in the given order; the seed is
// not sorted.
func NewColumnOrder[T comparable](seed []T, compare func(a, b T) int) *ColumnOrder[T] {
	return &ColumnOrder[T]{walk: NewLeftmostFirst(seed), compare: compare}
}

// Push sorts a copy of batch stably and prepends its unseen items.
func (v *ColumnOrder[T]) Push(batch []T) {
	sorted := slices.Clone(batch)
	slices.SortStableFunc(sorted, v.compare)
	v.walk.Push(sorted)
}

// Pop removes and returns the next item.
func (v *ColumnOrder[T]) Pop() (T, bool) { return v.walk.Pop() }

// Len returns the number of pending items.
func (v *ColumnOrder[T]) Len() int { return v.walk.Len() }

// Descending adapts a key function into a comparison ordering larger keys
// first.
func Descending[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(b), key(a)) }
}
