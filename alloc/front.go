package alloc

import (
	"sync/atomic"
	"unsafe"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc/internal/cpulocal"
)

// Allocate returns an 8-byte-aligned pointer to at least size bytes,
// or nil on arena exhaustion (spec.md §4.1/§6). Size 0 is allowed and
// allocates the smallest size class.
func Allocate(size uintptr) unsafe.Pointer {
	if !initialized {
		panic("alloc: Allocate called before Initialize")
	}
	cpu := cpulocal.Current()
	heapID := int32(cpu%int(cpuCount)) + 1
	h := heapAt(heapID)
	if size > maxSmallSize {
		return largeAlloc(size, h)
	}
	return smallAlloc(size, h)
}

// Release returns ptr to the allocator. nil is a no-op; a block whose
// header already reads FREE is silently ignored (spec.md §4.1/§6/§7's
// tolerated double free).
func Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	addr := uintptr(ptr)
	pr := lookupPageRef(addr)
	switch pr.typ {
	case freeBlockType:
		return
	case largeBlockType:
		largeFree(pr)
	default:
		smallFree(pr, int(pr.typ), addr)
	}
}

// smallAlloc implements spec.md §4.2.
func smallAlloc(size uintptr, h *heap) unsafe.Pointer {
	k := sizeClassFor(size)

	if addr, ok := allocFromPartial(h, k); ok {
		return unsafe.Pointer(addr)
	}

	s := takeFreeSuperblock(h)
	if s == nil {
		region := growArena(superblockSize)
		if region == nil {
			return nil
		}
		s = (*pageRef)(unsafe.Pointer(&region[0]))
	}
	addr := formatSuperblock(s, k, h)
	return unsafe.Pointer(addr)
}

// allocFromPartial is step 1 of spec.md §4.2: try H.sizebases[k].
func allocFromPartial(h *heap, k int) (uintptr, bool) {
	h.lockSizebases[k].lock()
	if h.sizebases[k].empty() {
		h.lockSizebases[k].unlock()
		return 0, false
	}
	s := h.sizebases[k].head
	addr := popBlock(s)
	if s.count == 0 {
		h.sizebases[k].remove(s)
		h.lockCompletePages.lock()
		h.completePages.pushFront(s)
		h.lockCompletePages.unlock()
	}
	h.lockSizebases[k].unlock()
	return addr, true
}

// takeFreeSuperblock is steps 2-3 of spec.md §4.2: try the local free
// list, then the global one.
func takeFreeSuperblock(h *heap) *pageRef {
	h.lockFreePages.lock()
	s := h.freePages.popFront()
	if s != nil {
		h.nFreePages--
	}
	h.lockFreePages.unlock()
	if s != nil {
		return s
	}

	g := globalHeap()
	g.lockFreePages.lock()
	s = g.freePages.popFront()
	if s != nil {
		g.nFreePages--
	}
	g.lockFreePages.unlock()
	return s
}

// growArena is step 4 of spec.md §4.2 / the large path's grow: the
// single process-wide arena spinlock serializes every call into the
// arena provider (spec.md §3's Arena invariant, §5's "arena lock is
// always taken alone").
func growArena(n uintptr) []byte {
	arenaLock.lock()
	defer arenaLock.unlock()
	region := theArena.Grow(n)
	if region != nil {
		atomic.AddInt64(&arenaGrowthCount, 1)
	}
	return region
}

// formatSuperblock is step 5 of spec.md §4.2: carve S into blocks of
// class k, link them through the intrusive free list, pop one for the
// caller, and publish S onto sizebases[k].
func formatSuperblock(s *pageRef, k int, h *heap) uintptr {
	s.typ = blockType(k)
	s.heapID = h.id
	s.prev = nil
	s.next = nil

	n := capacityForClass(k)
	size := classSizes[k]
	base := addrOf(s) + pageRefHeaderSize

	// Block 0 (lowest address) is the tail.
	writeLink(base, 0)
	prevAddr := base
	for i := int32(1); i < n; i++ {
		cur := base + uintptr(i)*size
		writeLink(cur, prevAddr)
		prevAddr = cur
	}
	s.flist = prevAddr // highest-address block is the head
	s.count = n

	indexTrack(s)

	addr := popBlock(s)

	h.lockSizebases[k].lock()
	h.sizebases[k].pushFront(s)
	h.lockSizebases[k].unlock()

	return addr
}

// popBlock pops the head of s's intrusive free list, decrementing
// count.
func popBlock(s *pageRef) uintptr {
	addr := s.flist
	s.flist = readLink(addr)
	s.count--
	return addr
}

func readLink(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func writeLink(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

// largeAlloc implements spec.md §4.3.
func largeAlloc(size uintptr, h *heap) unsafe.Pointer {
	npages := (pageRefHeaderSize + size + superblockSize - 1) / superblockSize
	region := growArena(npages * superblockSize)
	if region == nil {
		return nil
	}
	s := (*pageRef)(unsafe.Pointer(&region[0]))
	s.typ = largeBlockType
	s.count = int32(npages)
	s.heapID = h.id
	s.next = nil
	s.prev = nil
	s.flist = 0

	indexTrack(s)

	h.lockLargePages.lock()
	h.largePages.pushFront(s)
	h.lockLargePages.unlock()

	return unsafe.Pointer(addrOf(s) + pageRefHeaderSize)
}

// smallFree implements spec.md §4.4, including the dual-lock
// acquisition the spec calls for to avoid a TOCTOU race with a
// concurrent allocator moving PR between sizebases[k] and
// complete_pages. Lock order is sizebases[k] before complete_pages
// (spec.md §5's ordering rule #1).
func smallFree(pr *pageRef, k int, addr uintptr) {
	h := heapAt(pr.heapID)

	h.lockSizebases[k].lock()
	h.lockCompletePages.lock()

	writeLink(addr, pr.flist)
	pr.flist = addr
	pr.count++

	debugAssert(pr.count <= capacityForClass(k),
		"count exceeds class capacity: block freed into a superblock whose count/list membership are already out of sync",
		"class", k, "count", pr.count, "capacity", capacityForClass(k))

	switch {
	case pr.count == capacityForClass(k):
		// PR is known to be on sizebases[k]: it had at least one
		// other free block before this release, so it cannot have
		// been on complete_pages.
		h.lockCompletePages.unlock()
		h.sizebases[k].remove(pr)
		pr.typ = freeBlockType
		h.lockSizebases[k].unlock()
		moveToFree(h, pr)
	case pr.count == 1:
		h.completePages.remove(pr)
		h.lockCompletePages.unlock()
		h.sizebases[k].pushFront(pr)
		h.lockSizebases[k].unlock()
	default:
		h.lockCompletePages.unlock()
		h.lockSizebases[k].unlock()
	}
}

// largeFree implements spec.md §4.5.
func largeFree(pr *pageRef) {
	h := heapAt(pr.heapID)

	h.lockLargePages.lock()
	h.largePages.remove(pr)
	h.lockLargePages.unlock()

	npages := pr.count
	base := addrOf(pr)

	var chainHead, chainTail *pageRef
	for i := int32(0); i < npages; i++ {
		sbAddr := base + uintptr(i)*superblockSize
		sb := (*pageRef)(unsafe.Pointer(sbAddr))
		sb.typ = freeBlockType
		sb.heapID = pr.heapID
		sb.prev = nil
		sb.flist = 0
		sb.count = 0
		indexTrack(sb)
		if i == 0 {
			chainHead = sb
		} else {
			chainTail.next = sb
		}
		chainTail = sb
	}
	chainTail.next = nil

	h.lockFreePages.lock()
	h.freePages.pushChainFront(chainHead, chainTail)
	h.nFreePages += npages
	h.lockFreePages.unlock()

	migrate(h)
}

// moveToFree publishes a newly-emptied superblock onto H.free_pages
// and then runs the migration heuristic (spec.md §4.4 tail, §4.6).
func moveToFree(h *heap, pr *pageRef) {
	pr.next = nil
	pr.prev = nil
	h.lockFreePages.lock()
	h.freePages.pushFront(pr)
	h.nFreePages++
	h.lockFreePages.unlock()
	migrate(h)
}

// migrate implements spec.md §4.6's local-to-global migration.
func migrate(h *heap) {
	if cpuCount == 1 || h.isGlobal() {
		return
	}

	h.lockFreePages.lock()
	if h.nFreePages <= 2 {
		h.lockFreePages.unlock()
		return
	}
	sb := h.freePages.popFront()
	h.nFreePages--
	h.lockFreePages.unlock()

	g := globalHeap()
	g.lockFreePages.lock()
	sb.heapID = globalHeapIndex
	g.freePages.pushFront(sb)
	g.nFreePages++
	g.lockFreePages.unlock()

	atomic.AddInt64(&migrationCount, 1)
}
