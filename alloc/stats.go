package alloc

import "sync/atomic"

// arenaGrowthCount and migrationCount are plain published counters, in
// the spirit of the runtime allocator's own mallocs/frees bookkeeping:
// a caller that wants to observe the allocator (the benchmark harness
// in cmd/palloc-bench) polls these instead of the library reaching out
// to a metrics backend itself (spec.md §6's "no wire protocol for the
// library surface proper" still holds — these are plain counters, not
// a Prometheus registry living inside alloc).
var (
	arenaGrowthCount int64
	migrationCount   int64
)

// ArenaGrowthCount returns the number of times the arena has been
// grown (superblock carve-outs and large-object reservations both
// count) since Initialize.
func ArenaGrowthCount() int64 {
	return atomic.LoadInt64(&arenaGrowthCount)
}

// MigrationCount returns the number of superblocks moved from a local
// heap's free_pages to the global heap's free_pages (spec.md §4.6)
// since Initialize.
func MigrationCount() int64 {
	return atomic.LoadInt64(&migrationCount)
}
