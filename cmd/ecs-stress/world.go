package main

import (
	"context"
	"math/rand"
	"reflect"
	"time"

	"github.com/plus3/sparsecs/ecs"
	"github.com/plus3/sparsecs/process"
	"github.com/rs/zerolog"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int
}

type Lifetime struct {
	Remaining float64
}

// Population is a singleton steering entity churn.
type Population struct {
	Target int
	Rand   *rand.Rand
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Lifetime](registry)
}

func spawnRandom(storage *ecs.Storage, rng *rand.Rand) ecs.Entity {
	components := []any{Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000}}
	if rng.Intn(4) != 0 {
		components = append(components, Velocity{DX: rng.Float32()*2 - 1, DY: rng.Float32()*2 - 1})
	}
	if rng.Intn(2) == 0 {
		hp := 10 + rng.Intn(90)
		components = append(components, Health{Current: hp, Max: hp})
	} else {
		components = append(components, Lifetime{Remaining: rng.Float64() * 5})
	}
	return storage.Spawn(components...)
}

type MovementSystem struct {
	Bodies ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	for body := range s.Bodies.Values() {
		body.Position.X += body.Velocity.DX * dt
		body.Position.Y += body.Velocity.DY * dt
	}
}

type DamageSystem struct {
	Living ecs.Query[struct {
		*Health
		Lifetime *Lifetime `ecs:"optional"`
	}]
	Population ecs.Singleton[Population]
}

func (s *DamageSystem) Execute(frame *ecs.UpdateFrame) {
	rng := s.Population.Get().Rand
	for e, item := range s.Living.Iter() {
		item.Health.Current -= rng.Intn(3)
		if item.Health.Current > 0 {
			continue
		}
		if item.Lifetime == nil {
			frame.Commands.AddComponent(e, Lifetime{Remaining: 0.5})
		}
		frame.Commands.RemoveComponent(e, reflect.TypeFor[Health]())
	}
}

type AgingSystem struct {
	Mortal ecs.Query[struct{ *Lifetime }]
}

func (s *AgingSystem) Execute(frame *ecs.UpdateFrame) {
	for e, item := range s.Mortal.Iter() {
		item.Lifetime.Remaining -= frame.DeltaTime
		if item.Lifetime.Remaining <= 0 {
			frame.Commands.Delete(e)
		}
	}
}

// RespawnSystem tops the population back up to its target.
type RespawnSystem struct {
	Population ecs.Singleton[Population]
}

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) {
	pop := s.Population.Get()
	for range pop.Target - frame.Storage.Alive() {
		frame.Commands.Defer(func() {
			spawnRandom(frame.Storage, pop.Rand)
		})
	}
	ecs.QueueSortAs[Velocity, Position](frame.Commands)
}

// WorldResult summarizes one simulated world.
type WorldResult struct {
	ID         int
	Updates    int64
	Resorts    int
	Alive      int
	Moving     uint64
	UpdateTime Stats
	Scheduler  *ecs.SchedulerStats
	Storage    ecs.StorageStats
}

// World is one independent storage and scheduler pair.
type World struct {
	id        int
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	logger    zerolog.Logger
	resorts   int
}

func newWorld(id int, settings Settings, logger zerolog.Logger) *World {
	logger = logger.With().Int("world", id).Logger()

	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	storage := ecs.NewStorage(registry)

	rng := rand.New(rand.NewSource(settings.Seed + int64(id)))
	ecs.NewSingleton(storage, Population{Target: settings.Entities, Rand: rng})

	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(logger))
	scheduler.Register(&RespawnSystem{})
	scheduler.Register(&DamageSystem{})
	scheduler.Register(&AgingSystem{})
	scheduler.Register(&MovementSystem{})

	for range settings.Entities {
		spawnRandom(storage, rng)
	}

	w := &World{id: id, storage: storage, scheduler: scheduler, logger: logger}
	scheduler.Attach(w.warmup(10))
	scheduler.Attach(w.resorter(settings.SortEvery.Seconds()))
	return w
}

// warmup logs once the world has run for the given number of frames.
func (w *World) warmup(frames int) *process.Process[float64] {
	return process.Func[float64](func(_ float64, resolve, _ func()) {
		frames--
		if frames > 0 {
			return
		}
		ecs.LogStats(&w.logger, zerolog.DebugLevel, w.storage.CollectStats())
		resolve()
	})
}

// resorter sorts health by remaining hit points and aligns lifetimes with it
// every interval seconds. It never ends on its own.
func (w *World) resorter(interval float64) *process.Process[float64] {
	var elapsed float64
	return process.Func[float64](func(delta float64, _, _ func()) {
		elapsed += delta
		if elapsed < interval {
			return
		}
		elapsed = 0
		ecs.Sort(w.storage, func(a, b *Health) bool {
			return a.Current < b.Current
		})
		ecs.SortAs[Lifetime, Health](w.storage)
		w.resorts++
	})
}

// Run drives the scheduler as fast as possible until ctx is done.
func (w *World) Run(ctx context.Context) WorldResult {
	result := WorldResult{ID: w.id}
	last := time.Now()

	for ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		w.scheduler.Once(dt)
		result.UpdateTime.Samples = append(result.UpdateTime.Samples, time.Since(now))
		result.Updates++
	}

	result.UpdateTime.Finalize()
	result.Resorts = w.resorts
	result.Alive = w.storage.Alive()
	result.Moving = w.storage.Intersect(reflect.TypeFor[Position](), reflect.TypeFor[Velocity]()).GetCardinality()
	result.Scheduler = w.scheduler.Stats()
	result.Storage = w.storage.CollectStats()

	w.logger.Info().
		Int64("updates", result.Updates).
		Int("alive", result.Alive).
		Uint64("moving", result.Moving).
		Int("resorts", result.Resorts).
		Msg("world finished")
	return result
}
