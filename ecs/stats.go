package ecs

import (
	"reflect"
	"sort"
)

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	TotalEntityCount int
	PoolCount        int
	ComponentCount   int
	SingletonCount   int
	PoolBreakdown    []PoolStats
	SingletonTypes   []reflect.Type
}

// PoolStats describes a single component pool.
type PoolStats struct {
	Type  reflect.Type
	Size  int
	Share float64 // fraction of live entities holding the component
}

// CollectStats gathers entity, pool and singleton counts. Breakdowns are
// sorted by type name.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount: s.Alive(),
		PoolCount:        len(s.pools),
		SingletonCount:   len(s.singletons),
		PoolBreakdown:    make([]PoolStats, 0, len(s.pools)),
		SingletonTypes:   make([]reflect.Type, 0, len(s.singletons)),
	}

	for typ, pool := range s.pools {
		ps := PoolStats{Type: typ, Size: pool.Len()}
		if stats.TotalEntityCount > 0 {
			ps.Share = float64(ps.Size) / float64(stats.TotalEntityCount)
		}
		stats.ComponentCount += ps.Size
		stats.PoolBreakdown = append(stats.PoolBreakdown, ps)
	}
	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ)
	}

	sort.Slice(stats.PoolBreakdown, func(i, j int) bool {
		return stats.PoolBreakdown[i].Type.String() < stats.PoolBreakdown[j].Type.String()
	})
	sort.Sort(byTypeName(stats.SingletonTypes))
	return stats
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }
