package ecs_test

import "github.com/plus3/sparsecs/ecs"

type (
	Position struct{ X, Y float32 }
	Velocity struct{ DX, DY float32 }
	Name     struct{ Value string }
	Health   struct{ Current, Max int }

	// non-struct components
	Score int32
	Tag   string

	Inventory struct{ Items []string }
)

// newTestRegistry registers every component above.
func newTestRegistry() *ecs.ComponentRegistry {
	r := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](r)
	ecs.RegisterComponent[Velocity](r)
	ecs.RegisterComponent[Name](r)
	ecs.RegisterComponent[Health](r)
	ecs.RegisterComponent[Score](r)
	ecs.RegisterComponent[Tag](r)
	ecs.RegisterComponent[Inventory](r)
	return r
}
