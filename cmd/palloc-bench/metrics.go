package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc"
)

// metrics is the palloc-bench-owned Prometheus registry. alloc itself
// exposes no Prometheus/wire surface (SPEC_FULL.md §9: "the alloc
// package itself still honors... no CLI, no env vars, no files, no
// wire protocol for the library surface proper") — it only publishes
// plain counters (alloc.MigrationCount, alloc.ArenaGrowthCount). This
// registry derives allocs/frees/bytesReqs from wrapping Allocate/
// Release calls directly, and migrations/arenaGrowth by sampling
// alloc's counters (sampleAllocatorCounters below).
type metrics struct {
	registry    *prometheus.Registry
	allocs      prometheus.Counter
	frees       prometheus.Counter
	bytesReqs   prometheus.Counter
	migrations  prometheus.Counter
	arenaGrowth prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		allocs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "palloc_bench_allocations_total",
			Help: "Total number of Allocate calls issued by the benchmark.",
		}),
		frees: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "palloc_bench_frees_total",
			Help: "Total number of Release calls issued by the benchmark.",
		}),
		bytesReqs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "palloc_bench_bytes_requested_total",
			Help: "Sum of sizes passed to Allocate by the benchmark.",
		}),
		migrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "palloc_bench_migrations_total",
			Help: "Superblocks moved from a local heap's free_pages to the global heap's free_pages, per alloc.MigrationCount.",
		}),
		arenaGrowth: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "palloc_bench_arena_growths_total",
			Help: "Times the arena was grown, per alloc.ArenaGrowthCount.",
		}),
	}
	reg.MustRegister(m.allocs, m.frees, m.bytesReqs, m.migrations, m.arenaGrowth)
	return m
}

// sampleAllocatorCounters adds the delta between two alloc package
// snapshots onto this benchmark run's Prometheus counters. alloc
// publishes plain monotonic counters (alloc/stats.go) rather than
// exposing a Prometheus registry itself, so the harness is what turns
// them into scrapeable metrics.
func (m *metrics) sampleAllocatorCounters(baseMigrations, baseArenaGrowth int64) {
	m.migrations.Add(float64(clampNonNegative(alloc.MigrationCount() - baseMigrations)))
	m.arenaGrowth.Add(float64(clampNonNegative(alloc.ArenaGrowthCount() - baseArenaGrowth)))
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
