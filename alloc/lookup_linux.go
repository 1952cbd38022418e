//go:build linux

package alloc

// On Linux the arena is mmap-backed and Initialize pads it to an
// 8KiB-aligned start (padArenaAlignment); every subsequent Grow is
// requested in whole-superblock multiples, so masking an address to
// 8KiB always recovers the right PageRef (spec.md §4.6's default
// strategy). No index bookkeeping is needed on this path.

func lookupPageRef(addr uintptr) *pageRef {
	return pageRefFor(addr)
}

func indexTrack(*pageRef) {}
