// Package alloc implements a multiprocessor-scalable general-purpose
// allocator: per-CPU heaps feeding from a shared global heap,
// size-classed slab-style superblocks, and migration of empty
// superblocks back to the global pool, following the core ideas of
// the Hoard allocator (SPEC_FULL.md §1). The public surface is the
// classic three-function heap API: Initialize, Allocate, Release.
package alloc

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc/internal/arena"
	"github.com/koko1996/Parallel-Memory-Allocator/alloc/internal/cpulocal"
)

// globalHeapIndex names heap 0, which spec.md §3 reserves for the
// global heap and which the front-end never selects for allocation.
const globalHeapIndex = 0

var (
	theArena    arena.Arena
	arenaLock   spinMutex // the single process-wide arena lock, spec.md §3/§5
	cpuCount    int32     // P, set once by Initialize
	heapsBase   unsafe.Pointer
	numHeaps    int32 // P + 1
	initialized bool
)

// Initialize brings up the allocator. It must be called exactly once
// before any Allocate/Release call (spec.md §4.7).
func Initialize() error {
	return initialize(0)
}

// initialize does the real work of spec.md §4.7. forcedCPUCount, when
// > 0, overrides cpulocal.Count() — used by this package's own tests
// to get a deterministic, reproducible P (spec.md §8's migration
// scenario needs P >= 2, which the test host may not have).
func initialize(forcedCPUCount int) error {
	if err := theArena.Init(); err != nil {
		return errors.Wrap(err, "alloc: arena initialization failed")
	}

	padArenaAlignment()

	p := forcedCPUCount
	if p <= 0 {
		p = cpulocal.Count()
	}
	if p <= 0 {
		p = 1
	}
	cpuCount = int32(p)

	n := int32(p) + 1
	heapsBytes := uintptr(n) * unsafe.Sizeof(heap{})
	superblocks := (heapsBytes + superblockSize - 1) / superblockSize
	region := theArena.Grow(superblocks * superblockSize)
	if region == nil {
		return errors.New("alloc: arena exhausted while allocating heap records")
	}

	heapsBase = unsafe.Pointer(&region[0])
	numHeaps = n
	for i := int32(0); i < n; i++ {
		heapAt(i).init(i)
	}

	initialized = true
	return nil
}

// padArenaAlignment pads the arena forward, by growing a short throw-
// away region, until Lo() is 8KiB-aligned — spec.md §4.7 step 2 and
// §9's note that this should be computed as "(-lo) mod 8192" rather
// than an abs-of-a-long distance.
func padArenaAlignment() {
	lo := theArena.Lo()
	pad := (-lo) % superblockSize
	if pad == 0 {
		return
	}
	theArena.Grow(pad)
}

func heapAt(i int32) *heap {
	return (*heap)(unsafe.Pointer(uintptr(heapsBase) + uintptr(i)*unsafe.Sizeof(heap{})))
}

func globalHeap() *heap {
	return heapAt(globalHeapIndex)
}
