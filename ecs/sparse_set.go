package ecs

import (
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/plus3/sparsecs/internal/assert"
	"github.com/rotisserie/eris"
)

// null marks a sparse slot that does not map to a dense position.
const null = ^uint32(0)

// Index is the read-only surface shared by SparseSet and Pool. It is what
// Respect uses as the source of an ordering.
type Index[E Identifier] interface {
	Has(e E) bool
	Len() int
	Data() []E
}

// SparseSet maps identifiers to positions in a packed array.
//
// The sparse array is indexed by identifier and holds a position into the
// dense array; the dense array holds every present identifier with no holes.
// For every present identifier e, dense[sparse[e]] == e. Membership is always
// checked through the dense array, so stale sparse slots are harmless.
//
// A SparseSet is not safe for concurrent use.
type SparseSet[E Identifier] struct {
	sparse []uint32
	dense  []E
}

// NewSparseSet creates an empty set with room for capacity identifiers in the
// dense array.
func NewSparseSet[E Identifier](capacity int) *SparseSet[E] {
	return &SparseSet[E]{
		dense: make([]E, 0, capacity),
	}
}

// Has reports whether e is present.
func (s *SparseSet[E]) Has(e E) bool {
	if uint64(e) >= uint64(len(s.sparse)) {
		return false
	}
	pos := s.sparse[e]
	return uint64(pos) < uint64(len(s.dense)) && s.dense[pos] == e
}

// Index returns the dense position of e. e must be present.
func (s *SparseSet[E]) Index(e E) int {
	assert.That(s.Has(e), "sparse set: identifier %d not present", e)
	return int(s.sparse[e])
}

// Insert appends e to the dense array. e must not be present.
func (s *SparseSet[E]) Insert(e E) {
	assert.That(!s.Has(e), "sparse set: identifier %d already present", e)
	s.assure(e)
	s.sparse[e] = uint32(len(s.dense))
	s.dense = append(s.dense, e)
}

// Erase removes e by moving the last identifier into its slot. e must be
// present. The relative order of the remaining identifiers is not kept.
func (s *SparseSet[E]) Erase(e E) {
	assert.That(s.Has(e), "sparse set: identifier %d not present", e)
	pos := s.sparse[e]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[pos] = moved
	s.sparse[moved] = pos
	s.sparse[e] = null
	s.dense = s.dense[:last]
}

// TryInsert is Insert for callers that cannot guarantee e is absent.
func (s *SparseSet[E]) TryInsert(e E) error {
	if s.Has(e) {
		return eris.Wrapf(ErrAlreadyPresent, "insert %d", e)
	}
	s.Insert(e)
	return nil
}

// TryErase is Erase for callers that cannot guarantee e is present.
func (s *SparseSet[E]) TryErase(e E) error {
	if !s.Has(e) {
		return eris.Wrapf(ErrNotFound, "erase %d", e)
	}
	s.Erase(e)
	return nil
}

// Len returns the number of identifiers present.
func (s *SparseSet[E]) Len() int {
	return len(s.dense)
}

// Empty reports whether the set holds no identifiers.
func (s *SparseSet[E]) Empty() bool {
	return len(s.dense) == 0
}

// Reset removes every identifier. Allocated capacity is kept for reuse.
func (s *SparseSet[E]) Reset() {
	s.sparse = s.sparse[:0]
	s.dense = s.dense[:0]
}

// Data returns the live dense array. Callers must not modify it.
func (s *SparseSet[E]) Data() []E {
	return s.dense
}

// All iterates the dense array from the last position to the first. Each step
// reads the live array, so erasing the identifier just yielded is safe.
func (s *SparseSet[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for i := len(s.dense) - 1; i >= 0; i-- {
			if i >= len(s.dense) {
				continue
			}
			if !yield(s.dense[i]) {
				return
			}
		}
	}
}

// Bitmap returns a snapshot of the present identifiers.
func (s *SparseSet[E]) Bitmap() *roaring64.Bitmap {
	bm := roaring64.New()
	for _, e := range s.dense {
		bm.Add(uint64(e))
	}
	return bm
}

// Sort orders the set so that All yields identifiers in ascending order
// according to less. See Pool.Sort.
func (s *SparseSet[E]) Sort(less func(a, b E) bool) {
	s.sort(less, nil)
}

// Respect reorders the set to follow the relative order of other. It costs
// O(len(s)+len(other)) probes and up to O(len(s)) swaps. See Pool.Respect.
func (s *SparseSet[E]) Respect(other Index[E]) {
	s.respect(other, nil)
}

// assure grows the sparse array so that e is addressable.
func (s *SparseSet[E]) assure(e E) {
	if uint64(e) < uint64(len(s.sparse)) {
		return
	}
	old := len(s.sparse)
	size := int(e) + 1
	s.sparse = slices.Grow(s.sparse, size-old)[:size]
	for i := old; i < size; i++ {
		s.sparse[i] = null
	}
}

// swap exchanges the identifiers at two dense positions and repairs both
// sparse slots.
func (s *SparseSet[E]) swap(i, j int) {
	a, b := s.dense[i], s.dense[j]
	s.dense[i], s.dense[j] = b, a
	s.sparse[a] = uint32(j)
	s.sparse[b] = uint32(i)
}
