package ecs

import "github.com/rs/zerolog"

// LogStats writes a storage summary as a single structured event.
func LogStats(logger *zerolog.Logger, level zerolog.Level, stats StorageStats) {
	pools := zerolog.Arr()
	for _, pool := range stats.PoolBreakdown {
		pools = pools.Dict(zerolog.Dict().
			Str("component", pool.Type.String()).
			Int("size", pool.Size).
			Float64("share", pool.Share))
	}

	singletons := zerolog.Arr()
	for _, typ := range stats.SingletonTypes {
		singletons = singletons.Str(typ.String())
	}

	logger.WithLevel(level).
		Int("entities", stats.TotalEntityCount).
		Int("total_components", stats.ComponentCount).
		Int("total_pools", stats.PoolCount).
		Array("pools", pools).
		Array("singletons", singletons).
		Msg("storage stats")
}
