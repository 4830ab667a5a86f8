package main

import (
	"flag"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config is read from the environment first; command line flags override it.
type Config struct {
	Duration       string `config:"ECS_STRESS_DURATION"`
	Entities       int    `config:"ECS_STRESS_ENTITIES"`
	Workers        int    `config:"ECS_STRESS_WORKERS"`
	Parallelism    int    `config:"ECS_STRESS_PARALLELISM"`
	SortEvery      string `config:"ECS_STRESS_SORT_EVERY"`
	Seed           int64  `config:"ECS_STRESS_SEED"`
	LogLevel       string `config:"ECS_STRESS_LOG_LEVEL"`
	GCPauseMetrics bool   `config:"ECS_STRESS_GC_PAUSE_METRICS"`
}

// Settings is the validated form of Config.
type Settings struct {
	Duration       time.Duration
	Entities       int
	Workers        int
	Parallelism    int
	SortEvery      time.Duration
	Seed           int64
	LogLevel       string
	GCPauseMetrics bool
}

func defaultConfig() Config {
	return Config{
		Duration:    "10s",
		Entities:    10000,
		Workers:     1,
		Parallelism: 4,
		SortEvery:   "250ms",
		Seed:        1,
		LogLevel:    "info",
	}
}

// LoadSettings merges defaults, environment variables and flags.
func LoadSettings(args []string) (Settings, error) {
	cfg := defaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Settings{}, eris.Wrap(err, "failed to read environment")
	}

	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	fs.StringVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	fs.IntVar(&cfg.Entities, "entities", cfg.Entities, "The initial number of entities per world.")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "The number of independent worlds to simulate.")
	fs.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "The maximum number of worlds simulated at once.")
	fs.StringVar(&cfg.SortEvery, "sort-every", cfg.SortEvery, "How often pools are resorted and aligned.")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the per-world random sources.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level name.")
	fs.BoolVar(&cfg.GCPauseMetrics, "gc-pause-metrics", cfg.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	if err := fs.Parse(args); err != nil {
		return Settings{}, eris.Wrap(err, "failed to parse flags")
	}

	return cfg.settings()
}

func (c Config) settings() (Settings, error) {
	duration, err := time.ParseDuration(c.Duration)
	if err != nil {
		return Settings{}, eris.Wrapf(err, "invalid duration %q", c.Duration)
	}
	sortEvery, err := time.ParseDuration(c.SortEvery)
	if err != nil {
		return Settings{}, eris.Wrapf(err, "invalid sort interval %q", c.SortEvery)
	}
	if c.Entities <= 0 {
		return Settings{}, eris.Errorf("entities must be positive, got %d", c.Entities)
	}
	if c.Workers <= 0 {
		return Settings{}, eris.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Parallelism <= 0 {
		c.Parallelism = c.Workers
	}

	return Settings{
		Duration:       duration,
		Entities:       c.Entities,
		Workers:        c.Workers,
		Parallelism:    c.Parallelism,
		SortEvery:      sortEvery,
		Seed:           c.Seed,
		LogLevel:       c.LogLevel,
		GCPauseMetrics: c.GCPauseMetrics,
	}, nil
}
