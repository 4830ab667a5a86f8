package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/sparsecs/ecs"
)

// ExampleStorage demonstrates basic entity and component operations.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn(Position{X: 10, Y: 20}, Velocity{DX: 1, DY: 0})
	rock := storage.Spawn(Position{X: 5, Y: 5})

	pos := ecs.Get[Position](storage, player)
	fmt.Printf("player at (%.0f, %.0f)\n", pos.X, pos.Y)
	fmt.Println("rock moves:", storage.HasComponent(rock, reflect.TypeFor[Velocity]()))

	if err := storage.Delete(rock); err != nil {
		fmt.Println(err)
	}
	fmt.Println("alive:", storage.Alive(), "rock valid:", storage.Valid(rock))

	// Output:
	// player at (10, 20)
	// rock moves: false
	// alive: 1 rock valid: false
}

// ExampleSort keeps a component pool ordered so that views visit entities
// front to back.
func ExampleSort() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Name](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{Y: 3}, Name{Value: "far"})
	storage.Spawn(Position{Y: 1}, Name{Value: "near"})
	storage.Spawn(Position{Y: 2}, Name{Value: "middle"})

	ecs.Sort(storage, func(a, b *Position) bool { return a.Y < b.Y })
	ecs.SortAs[Name, Position](storage)

	for name := range ecs.PoolOf[Name](storage).Values() {
		fmt.Println(name.Value)
	}

	// Output:
	// near
	// middle
	// far
}
