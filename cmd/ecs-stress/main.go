package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	settings, err := LoadSettings(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		logger = logger.Level(level)
	} else {
		logger.Warn().Str("level", settings.LogLevel).Msg("unknown log level, using info")
		logger = logger.Level(zerolog.InfoLevel)
	}

	report, err := run(context.Background(), settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("stress test failed")
	}
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	logger.Info().Msg("stress test complete")
}

// run builds every world, simulates them concurrently for the configured
// duration and collects a report.
func run(ctx context.Context, settings Settings, logger zerolog.Logger) (*Report, error) {
	logger.Info().
		Int("workers", settings.Workers).
		Int("entities", settings.Entities).
		Dur("duration", settings.Duration).
		Msg("starting ECS stress test")

	report := &Report{
		Duration:       settings.Duration,
		Entities:       settings.Entities,
		Workers:        settings.Workers,
		SortEvery:      settings.SortEvery,
		GCPauseMetrics: settings.GCPauseMetrics,
		Worlds:         make([]WorldResult, settings.Workers),
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, settings.Duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Parallelism)
	for id := range settings.Workers {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = eris.Errorf("world %d panicked: %v", id, r)
				}
			}()
			world := newWorld(id, settings, logger)
			report.Worlds[id] = world.Run(ctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.TotalTime = time.Since(start)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Finalize()
	return report, nil
}
