package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// SchedulerStats summarizes what a Scheduler has run so far.
type SchedulerStats struct {
	SystemCount     int
	TaskCount       int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats holds the timings of one registered system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// record folds one run of duration d into the stats.
func (st *SystemStats) record(d time.Duration) {
	if st.ExecutionCount == 0 || d < st.MinDuration {
		st.MinDuration = d
	}
	st.MaxDuration = max(st.MaxDuration, d)
	st.LastDuration = d
	st.TotalDuration += d
	st.ExecutionCount++
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

// binder is implemented by the handle types a system may embed as fields
// (Query and Singleton); the scheduler binds them to its storage.
type binder interface {
	Init(storage *Storage)
}

type registeredSystem struct {
	system  System
	queries []executor
	stats   SystemStats
}

// Scheduler runs its systems in registration order, flushes the commands
// they queued and then ticks the attached tasks.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
	tasks   []Task
	frame   *UpdateFrame
	logger  zerolog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger used for registration and task events.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler driving storage.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		frame:   newUpdateFrame(storage),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends system to the run order and binds its Query and
// Singleton fields.
func (s *Scheduler) Register(system System) {
	rs := &registeredSystem{
		system:  system,
		queries: s.bindFields(system),
	}
	rs.stats.Name = systemName(system)
	s.systems = append(s.systems, rs)

	s.logger.Debug().
		Str("system", rs.stats.Name).
		Int("queries", len(rs.queries)).
		Msg("system registered")
}

// Attach adds a task that is ticked after the systems on every frame until
// it is dead.
func (s *Scheduler) Attach(task Task) {
	s.tasks = append(s.tasks, task)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// bindFields walks the exported struct fields of system and binds every
// field implementing binder. Bound queries are returned so they can be
// refreshed before each run.
func (s *Scheduler) bindFields(system System) []executor {
	v := reflect.ValueOf(system)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return nil
	}

	var queries []executor
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		handle, ok := field.Addr().Interface().(binder)
		if !ok {
			continue
		}
		handle.Init(s.storage)
		if q, ok := handle.(executor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once runs one frame with the given delta time.
func (s *Scheduler) Once(dt float64) {
	frame := s.frame
	frame.DeltaTime = dt
	frame.Tick++

	for _, rs := range s.systems {
		start := time.Now()
		for _, q := range rs.queries {
			q.Execute()
		}
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}

	frame.Commands.Flush(s.storage)
	if n := frame.Commands.Failures(); n > 0 {
		s.logger.Warn().Uint64("tick", frame.Tick).Int("failures", n).Msg("commands addressed dead entities")
	}

	s.tickTasks(dt)
}

// tickTasks ticks every task once. Tasks attached while ticking start on the
// next frame.
func (s *Scheduler) tickTasks(dt float64) {
	tasks := s.tasks
	s.tasks = nil
	alive := tasks[:0]
	for _, task := range tasks {
		task.Tick(dt)
		if !task.Dead() {
			alive = append(alive, task)
			continue
		}
		if task.Rejected() {
			s.logger.Warn().Uint64("tick", s.frame.Tick).Msg("task rejected")
		}
	}
	clear(tasks[len(alive):])
	s.tasks = append(alive, s.tasks...)
}

// Run calls Once on every tick of interval, passing the wall time elapsed
// since the previous frame, until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stats returns a copy of the scheduler's counters.
func (s *Scheduler) Stats() *SchedulerStats {
	out := &SchedulerStats{
		SystemCount: len(s.systems),
		TaskCount:   len(s.tasks),
		Ticks:       s.frame.Tick,
		Systems:     make([]SystemStats, 0, len(s.systems)),
	}
	for _, rs := range s.systems {
		out.Systems = append(out.Systems, rs.stats)
		out.TotalExecutions += rs.stats.ExecutionCount
	}
	return out
}
