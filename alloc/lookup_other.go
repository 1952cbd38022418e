//go:build !linux

package alloc

import (
	"sync"
	"unsafe"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc/pageindex"
)

// On non-Linux builds the arena falls back to a plain make([]byte,...)
// allocation (alloc/internal/arena's reserve_other.go). Its backing
// array start is not guaranteed 8KiB-aligned by the language, and Go
// makes no promise that heap objects never move in a future release,
// so this build uses the AVL index (spec.md §4.6's alternative
// strategy) instead of trusting address masking. Initialize still
// pads the arena to an 8KiB boundary (padArenaAlignment), so masking
// would in fact work today — the index is the defensive choice for a
// guarantee the language doesn't actually make.
var (
	pageTreeLock sync.RWMutex
	pageTree     pageindex.Tree
)

func lookupPageRef(addr uintptr) *pageRef {
	// Find walks the tree by range containment, so it works whether
	// or not addr happens to be superblock-aligned — unlike
	// pageRefFor's mask, it does not assume alignment at all.
	pageTreeLock.RLock()
	e, ok := pageTree.Find(addr)
	pageTreeLock.RUnlock()
	if !ok {
		return pageRefFor(addr)
	}
	return (*pageRef)(unsafe.Pointer(e.Handle))
}

func indexTrack(pr *pageRef) {
	pageTreeLock.Lock()
	pageTree.Insert(pageindex.Entry{Start: addrOf(pr), Handle: addrOf(pr)})
	pageTreeLock.Unlock()
}
