package ecs_test

import (
	"testing"

	"github.com/plus3/sparsecs/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuerySnapshot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	first := storage.Spawn(Position{X: 1}, Velocity{DX: 1})

	query := ecs.NewQuery[mover](storage)
	query.Execute()
	assert.Equal(t, 1, query.Len())

	// spawned after Execute, so not part of this frame's snapshot
	storage.Spawn(Position{X: 2}, Velocity{DX: 2})

	var entities []ecs.Entity
	for e, item := range query.Iter() {
		entities = append(entities, e)
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, []ecs.Entity{first}, entities)
	assert.Equal(t, float32(2), ecs.Get[Position](storage, first).X)

	query.Execute()
	assert.Equal(t, 2, query.Len())

	count := 0
	for range query.Values() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestQueryPanicsBeforeExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[mover](storage)

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })

	query.Execute()
	assert.NotPanics(t, func() { query.Iter() })

	query.Invalidate()
	assert.Panics(t, func() { query.Values() })
}

func TestQueryEarlyExit(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for range 5 {
		storage.Spawn(Position{}, Velocity{})
	}

	query := ecs.NewQuery[mover](storage)
	query.Execute()

	count := 0
	for range query.Iter() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
