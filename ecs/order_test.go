package ecs_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/plus3/sparsecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSet(ids ...uint32) *ecs.SparseSet[uint32] {
	set := ecs.NewSparseSet[uint32](len(ids))
	for _, e := range ids {
		set.Insert(e)
	}
	return set
}

func TestPoolSortAscending(t *testing.T) {
	t.Run("already ordered", func(t *testing.T) {
		pool := ecs.NewPool[uint32, int](0)
		pool.Construct(12, 12)
		pool.Construct(42, 9)
		pool.Construct(7, 6)
		pool.Construct(3, 3)
		pool.Construct(9, 1)

		pool.Sort(func(a, b uint32) bool {
			return *pool.Get(a) < *pool.Get(b)
		})

		assert.Equal(t, []int{12, 9, 6, 3, 1}, pool.Raw())
		assert.Equal(t, []uint32{12, 42, 7, 3, 9}, pool.Data())
		assert.Equal(t, []int{1, 3, 6, 9, 12}, poolValues(pool))
	})

	t.Run("scrambled", func(t *testing.T) {
		pool := ecs.NewPool[uint32, int](0)
		pool.Construct(3, 3)
		pool.Construct(42, 9)
		pool.Construct(9, 1)
		pool.Construct(12, 12)
		pool.Construct(7, 6)

		pool.Sort(func(a, b uint32) bool {
			return *pool.Get(a) < *pool.Get(b)
		})

		assert.Equal(t, []int{12, 9, 6, 3, 1}, pool.Raw())
		assert.Equal(t, []uint32{12, 42, 7, 3, 9}, pool.Data())
		assert.Equal(t, []int{1, 3, 6, 9, 12}, poolValues(pool))
		for e, v := range pool.All() {
			assert.Same(t, pool.Get(e), v)
		}
	})

	t.Run("three entries", func(t *testing.T) {
		pool := ecs.NewPool[uint32, int](0)
		pool.Construct(3, 3)
		pool.Construct(12, 6)
		pool.Construct(42, 9)

		pool.Sort(func(a, b uint32) bool {
			return *pool.Get(a) < *pool.Get(b)
		})

		assert.Equal(t, []int{9, 6, 3}, pool.Raw())
		assert.Equal(t, []uint32{42, 12, 3}, pool.Data())
		assert.Equal(t, 3, *pool.Get(3))
		assert.Equal(t, 6, *pool.Get(12))
		assert.Equal(t, 9, *pool.Get(42))
	})
}

func TestSparseSetSort(t *testing.T) {
	set := newSet(5, 1, 4, 2, 3)
	set.Sort(func(a, b uint32) bool { return a < b })

	assert.Equal(t, []uint32{5, 4, 3, 2, 1}, set.Data())
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, collect(set))
	for i, e := range set.Data() {
		assert.Equal(t, i, set.Index(e))
	}
}

func TestSortSmallSets(t *testing.T) {
	empty := newSet()
	empty.Sort(func(a, b uint32) bool { return a < b })
	assert.True(t, empty.Empty())

	single := newSet(4)
	single.Sort(func(a, b uint32) bool { return a < b })
	assert.Equal(t, []uint32{4}, single.Data())
}

func TestSortIsIdempotent(t *testing.T) {
	pool := ecs.NewPool[uint32, int](0)
	rng := rand.New(rand.NewSource(3))
	for e := range uint32(64) {
		pool.Construct(e, rng.Intn(8))
	}
	less := func(a, b uint32) bool {
		return *pool.Get(a) < *pool.Get(b)
	}

	pool.Sort(less)
	data := slices.Clone(pool.Data())
	raw := slices.Clone(pool.Raw())

	pool.Sort(less)
	assert.Equal(t, data, pool.Data())
	assert.Equal(t, raw, pool.Raw())
}

func TestSortKeepsEqualEntriesInPlace(t *testing.T) {
	pool := ecs.NewPool[uint32, int](0)
	pool.Construct(1, 5)
	pool.Construct(2, 5)
	pool.Construct(3, 1)
	pool.Construct(4, 5)

	pool.Sort(func(a, b uint32) bool {
		return *pool.Get(a) < *pool.Get(b)
	})

	assert.Equal(t, []uint32{1, 2, 4, 3}, pool.Data())
	assert.Equal(t, []int{5, 5, 5, 1}, pool.Raw())
}

func TestSortRandomPools(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 50; round++ {
		pool := ecs.NewPool[uint32, int](0)
		for _, e := range rng.Perm(100)[:rng.Intn(100)] {
			pool.Construct(uint32(e), rng.Intn(1000))
		}

		pool.Sort(func(a, b uint32) bool {
			return *pool.Get(a) < *pool.Get(b)
		})

		values := poolValues(pool)
		require.True(t, slices.IsSorted(values), "round %d: %v", round, values)
		for i, e := range pool.Data() {
			require.Equal(t, i, pool.Index(e))
			require.Equal(t, pool.Raw()[i], *pool.Get(e))
		}
	}
}

func TestRespect(t *testing.T) {
	t.Run("disjoint", func(t *testing.T) {
		lhs := newSet(1, 2, 3)
		rhs := newSet(4, 5, 6)

		lhs.Respect(rhs)
		assert.Equal(t, []uint32{1, 2, 3}, lhs.Data())
		assert.Equal(t, []uint32{4, 5, 6}, rhs.Data())
	})

	t.Run("empty other", func(t *testing.T) {
		lhs := newSet(3, 1, 2)
		lhs.Respect(newSet())
		assert.Equal(t, []uint32{3, 1, 2}, lhs.Data())
	})

	t.Run("overlap", func(t *testing.T) {
		lhs := newSet(3, 12, 42)
		rhs := newSet(12)

		lhs.Respect(rhs)
		assert.Equal(t, []uint32{3, 42, 12}, lhs.Data())
		assert.Equal(t, []uint32{12}, rhs.Data())
	})

	t.Run("ordered", func(t *testing.T) {
		lhs := newSet(1, 2, 3, 4, 5)
		rhs := newSet(6, 1, 2, 3, 4, 5)

		rhs.Respect(lhs)
		assert.Equal(t, []uint32{1, 2, 3, 4, 5}, lhs.Data())
		assert.Equal(t, []uint32{6, 1, 2, 3, 4, 5}, rhs.Data())
	})

	t.Run("reverse", func(t *testing.T) {
		lhs := newSet(1, 2, 3, 4, 5)
		rhs := newSet(5, 4, 3, 2, 1, 6)

		rhs.Respect(lhs)
		assert.Equal(t, []uint32{6, 1, 2, 3, 4, 5}, rhs.Data())
		for i, e := range rhs.Data() {
			assert.Equal(t, i, rhs.Index(e))
		}
	})

	t.Run("unordered", func(t *testing.T) {
		lhs := newSet(1, 2, 3, 4, 5)
		rhs := newSet(3, 2, 6, 1, 4, 5)

		rhs.Respect(lhs)
		assert.Equal(t, []uint32{6, 1, 2, 3, 4, 5}, rhs.Data())
	})

	t.Run("other holds extra identifiers", func(t *testing.T) {
		lhs := newSet(2, 1)
		rhs := newSet(9, 1, 8, 2)

		lhs.Respect(rhs)
		assert.Equal(t, []uint32{1, 2}, lhs.Data())
	})

	t.Run("self only identifiers keep their order", func(t *testing.T) {
		lhs := newSet(7, 3, 8, 1, 9, 2)
		rhs := newSet(1, 2, 3)

		lhs.Respect(rhs)
		assert.Equal(t, []uint32{7, 8, 9, 1, 2, 3}, lhs.Data())
	})

	t.Run("single shared identifier at the head", func(t *testing.T) {
		lhs := ecs.NewPool[uint32, uint32](1001)
		for e := range uint32(1001) {
			lhs.Construct(e, e*10)
		}
		lhs.Respect(newSet(0))

		// every self-only entry shifts down one slot to keep its order
		data := lhs.Data()
		require.Len(t, data, 1001)
		for i, e := range data[:1000] {
			assert.Equal(t, uint32(i+1), e)
		}
		assert.Equal(t, uint32(0), data[1000])
		for e, v := range lhs.All() {
			assert.Equal(t, e*10, *v)
		}
	})
}

func TestPoolRespectMovesPayload(t *testing.T) {
	positions := ecs.NewPool[uint32, string](0)
	positions.Construct(1, "p1")
	positions.Construct(2, "p2")
	positions.Construct(3, "p3")

	velocities := ecs.NewPool[uint32, string](0)
	velocities.Construct(3, "v3")
	velocities.Construct(4, "v4")
	velocities.Construct(1, "v1")

	velocities.Respect(positions)
	assert.Equal(t, []uint32{4, 1, 3}, velocities.Data())
	assert.Equal(t, []string{"v4", "v1", "v3"}, velocities.Raw())

	// a pool can respect a plain set too
	velocities.Respect(newSet(3, 4, 1))
	assert.Equal(t, []uint32{3, 4, 1}, velocities.Data())
	assert.Equal(t, []string{"v3", "v4", "v1"}, velocities.Raw())
}

func TestRespectRandomSets(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for round := 0; round < 50; round++ {
		self := newSet()
		for _, e := range rng.Perm(40)[:rng.Intn(40)] {
			self.Insert(uint32(e))
		}
		other := newSet()
		for _, e := range rng.Perm(40)[:rng.Intn(40)] {
			other.Insert(uint32(e))
		}

		var selfOnly, shared []uint32
		for _, e := range self.Data() {
			if !other.Has(e) {
				selfOnly = append(selfOnly, e)
			}
		}
		for _, e := range other.Data() {
			if self.Has(e) {
				shared = append(shared, e)
			}
		}

		self.Respect(other)
		if self.Empty() {
			continue
		}

		want := append(slices.Clone(selfOnly), shared...)
		require.Equal(t, want, self.Data(), "round %d", round)
		for i, e := range self.Data() {
			require.Equal(t, i, self.Index(e))
		}
	}
}
