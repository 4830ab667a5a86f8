package ecs

import "slices"

// sort reorders the dense array so that walking it from the last position to
// the first visits identifiers in ascending order according to less.
//
// The permutation is computed over positions first, so less may look
// identifiers up (through Pool.Get for instance) while the sort runs. It is
// then applied in place one cycle at a time. onSwap, when set, mirrors every
// swap onto a parallel array.
func (s *SparseSet[E]) sort(less func(a, b E) bool, onSwap func(i, j int)) {
	if len(s.dense) < 2 {
		return
	}

	perm := make([]int, len(s.dense))
	for i := range perm {
		perm[i] = i
	}

	// Stable, so a store that is already in order is left untouched.
	slices.SortStableFunc(perm, func(i, j int) int {
		a, b := s.dense[i], s.dense[j]
		switch {
		case less(b, a):
			return -1
		case less(a, b):
			return 1
		default:
			return 0
		}
	})

	for pos := range perm {
		curr := pos
		next := perm[curr]
		for next != pos {
			s.swapWith(curr, next, onSwap)
			perm[curr] = curr
			curr = next
			next = perm[curr]
		}
		perm[curr] = curr
	}
}

// respect reorders the dense array so that identifiers also present in other
// follow other's relative order.
//
// Identifiers shared with other end up at the tail of the dense array in
// other's order; identifiers only present here end up at the head in their
// current relative order. Identifiers only present in other are ignored.
func (s *SparseSet[E]) respect(other Index[E], onSwap func(i, j int)) {
	if len(s.dense) == 0 || other.Len() == 0 {
		return
	}

	// Pack identifiers missing from other at the head. Every slot between
	// head and i holds a shared identifier, so their order is irrelevant.
	head := 0
	for i, e := range s.dense {
		if other.Has(e) {
			continue
		}
		if i != head {
			s.swapWith(head, i, onSwap)
		}
		head++
	}

	// Claim tail slots walking other backwards. The last unclaimed slot is
	// forced once every other shared identifier is placed.
	pos := len(s.dense) - 1
	data := other.Data()
	for from := len(data) - 1; pos > head && from >= 0; from-- {
		e := data[from]
		if !s.Has(e) {
			continue
		}
		if at := int(s.sparse[e]); at != pos {
			s.swapWith(pos, at, onSwap)
		}
		pos--
	}
}

func (s *SparseSet[E]) swapWith(i, j int, onSwap func(i, j int)) {
	s.swap(i, j)
	if onSwap != nil {
		onSwap(i, j)
	}
}
