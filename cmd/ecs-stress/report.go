package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"
)

// Report is the markdown summary printed after a run.
type Report struct {
	Duration  time.Duration
	Entities  int
	Workers   int
	SortEvery time.Duration

	Worlds         []WorldResult
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats summarizes frame durations.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

// Finalize derives the summary fields from Samples.
func (s *Stats) Finalize() {
	n := len(s.Samples)
	if n == 0 {
		return
	}

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	s.Min, s.Max = sorted[0], sorted[n-1]
	s.Avg = total / time.Duration(n)
	s.P99 = sorted[(n-1)*99/100]
}

// Finalize merges the per-world samples into the report totals.
func (r *Report) Finalize() {
	r.TotalUpdates = 0
	r.UpdateTime = Stats{}
	for _, w := range r.Worlds {
		r.TotalUpdates += w.Updates
		r.UpdateTime.Samples = append(r.UpdateTime.Samples, w.UpdateTime.Samples...)
	}
	r.UpdateTime.Finalize()
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"delta": func(end, start uint64) int64 {
		return int64(end) - int64(start)
	},
	"gcs": func(end, start uint32) uint32 { return end - start },
	"ns":  func(ns uint64) time.Duration { return time.Duration(ns) },
}).Parse(`
# sparsecs stress run

{{.Workers}} world(s) of {{.Entities}} entities for {{.Duration}}, resorting every {{.SortEvery}}.

| frames | wall time | avg | min | max | p99 |
|---|---|---|---|---|---|
| {{.TotalUpdates}} | {{.TotalTime}} | {{.UpdateTime.Avg}} | {{.UpdateTime.Min}} | {{.UpdateTime.Max}} | {{.UpdateTime.P99}} |
{{range .Worlds}}
### World {{.ID}}

{{.Updates}} frames (avg {{.UpdateTime.Avg}}, max {{.UpdateTime.Max}}); {{.Alive}} alive, {{.Moving}} moving, {{.Resorts}} resorts.

Pools:
{{range .Storage.PoolBreakdown}}- {{.Type}}: {{.Size}} ({{pct .Share}})
{{end}}
Systems:
{{range .Scheduler.Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
### Memory

| | start | end | delta |
|---|---|---|---|
| heap | {{.MemStatsStart.HeapAlloc}} | {{.MemStatsEnd.HeapAlloc}} | {{delta .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} |
| allocated | {{.MemStatsStart.TotalAlloc}} | {{.MemStatsEnd.TotalAlloc}} | {{delta .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} |
| sys | {{.MemStatsStart.Sys}} | {{.MemStatsEnd.Sys}} | {{delta .MemStatsEnd.Sys .MemStatsStart.Sys}} |
| gc cycles | {{.MemStatsStart.NumGC}} | {{.MemStatsEnd.NumGC}} | {{gcs .MemStatsEnd.NumGC .MemStatsStart.NumGC}} |
{{if .GCPauseMetrics}}
Total GC pause: {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`))

// Generate renders r as markdown.
func (r *Report) Generate(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
