package ecs

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/rotisserie/eris"
)

// Pool is a SparseSet that carries one value of type T per identifier. The
// payload array is kept aligned with the dense identifier array: Raw()[i]
// always belongs to Data()[i].
//
// A Pool is not safe for concurrent use.
type Pool[E Identifier, T any] struct {
	set     SparseSet[E]
	payload []T
}

// NewPool creates an empty pool with room for capacity values.
func NewPool[E Identifier, T any](capacity int) *Pool[E, T] {
	return &Pool[E, T]{
		set:     SparseSet[E]{dense: make([]E, 0, capacity)},
		payload: make([]T, 0, capacity),
	}
}

// Construct adds e with the given value and returns a pointer to the stored
// copy. e must not be present.
func (p *Pool[E, T]) Construct(e E, value T) *T {
	p.set.Insert(e)
	p.payload = append(p.payload, value)
	return &p.payload[len(p.payload)-1]
}

// Destroy removes e and its value, moving the last entry into the freed
// slot. e must be present.
func (p *Pool[E, T]) Destroy(e E) {
	pos := p.set.Index(e)
	last := len(p.payload) - 1
	p.payload[pos] = p.payload[last]

	var zero T
	p.payload[last] = zero
	p.payload = p.payload[:last]
	p.set.Erase(e)
}

// Get returns a pointer to the value of e. e must be present. The pointer is
// invalidated by any operation that moves or appends entries.
func (p *Pool[E, T]) Get(e E) *T {
	return &p.payload[p.set.Index(e)]
}

// TryConstruct is Construct for callers that cannot guarantee e is absent.
func (p *Pool[E, T]) TryConstruct(e E, value T) (*T, error) {
	if p.set.Has(e) {
		return nil, eris.Wrapf(ErrAlreadyPresent, "construct %d", e)
	}
	return p.Construct(e, value), nil
}

// TryDestroy is Destroy for callers that cannot guarantee e is present.
func (p *Pool[E, T]) TryDestroy(e E) error {
	if !p.set.Has(e) {
		return eris.Wrapf(ErrNotFound, "destroy %d", e)
	}
	p.Destroy(e)
	return nil
}

// TryGet is Get for callers that cannot guarantee e is present.
func (p *Pool[E, T]) TryGet(e E) (*T, error) {
	if !p.set.Has(e) {
		return nil, eris.Wrapf(ErrNotFound, "get %d", e)
	}
	return p.Get(e), nil
}

// Has reports whether e is present.
func (p *Pool[E, T]) Has(e E) bool {
	return p.set.Has(e)
}

// Index returns the dense position of e. e must be present.
func (p *Pool[E, T]) Index(e E) int {
	return p.set.Index(e)
}

// Len returns the number of entries.
func (p *Pool[E, T]) Len() int {
	return p.set.Len()
}

// Empty reports whether the pool has no entries.
func (p *Pool[E, T]) Empty() bool {
	return p.set.Empty()
}

// Reset removes every entry, keeping allocated capacity.
func (p *Pool[E, T]) Reset() {
	clear(p.payload)
	p.payload = p.payload[:0]
	p.set.Reset()
}

// Data returns the live dense identifier array. Callers must not modify it.
func (p *Pool[E, T]) Data() []E {
	return p.set.Data()
}

// Raw returns the live payload array, aligned with Data. Values may be
// modified in place; the slice itself must not be resliced or appended to.
func (p *Pool[E, T]) Raw() []T {
	return p.payload
}

// All iterates identifiers and value pointers from the last dense position to
// the first, reading live state at each step.
func (p *Pool[E, T]) All() iter.Seq2[E, *T] {
	return func(yield func(E, *T) bool) {
		for i := p.set.Len() - 1; i >= 0; i-- {
			if i >= p.set.Len() {
				continue
			}
			if !yield(p.set.dense[i], &p.payload[i]) {
				return
			}
		}
	}
}

// Values iterates value pointers in the same order as All.
func (p *Pool[E, T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range p.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Bitmap returns a snapshot of the present identifiers.
func (p *Pool[E, T]) Bitmap() *roaring64.Bitmap {
	return p.set.Bitmap()
}

// Sort reorders identifiers and values so that All yields them in ascending
// order according to less; Data and Raw read in descending order. less must
// be a strict weak ordering and may call Get. Equal entries keep their
// relative order, so sorting an already sorted pool is a no-op.
func (p *Pool[E, T]) Sort(less func(a, b E) bool) {
	p.set.sort(less, p.swapPayload)
}

// Respect reorders the pool so that identifiers it shares with other appear
// in other's relative order, packed at the tail of Data. Identifiers other
// does not hold are packed at the head and keep their relative order.
//
// Respect costs O(len(p)+len(other)) membership probes and up to O(len(p))
// swaps, even when other shares a single identifier with p: keeping the
// head in order may shift every entry by one slot.
func (p *Pool[E, T]) Respect(other Index[E]) {
	p.set.respect(other, p.swapPayload)
}

func (p *Pool[E, T]) swapPayload(i, j int) {
	p.payload[i], p.payload[j] = p.payload[j], p.payload[i]
}

var (
	_ Index[uint32] = (*SparseSet[uint32])(nil)
	_ Index[uint32] = (*Pool[uint32, int])(nil)
)
