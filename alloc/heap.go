package alloc

// cacheLinePad is padding to push each heap onto its own cache lines
// (spec.md §3: "Padding to force each heap onto its own cache-line
// group (≥ 3 × 64 B)", mirroring the teacher's per-mcentral
// "[sys.CacheLineSize]byte" padding in mheap.go, done for the same
// false-sharing reason).
const cacheLinePad = 3 * 64

// heap is one per-CPU heap, plus the distinguished global heap at
// index 0 (spec.md §3/§4.7). Every list has its own spinlock; lock
// ordering follows spec.md §5 and is spelled out at smallFree.
type heap struct {
	id int32

	lockFreePages spinMutex
	freePages     singleList
	nFreePages    int32

	lockCompletePages spinMutex
	completePages     pageRefList

	lockLargePages spinMutex
	largePages     pageRefList

	lockSizebases [numSizeClasses]spinMutex
	sizebases     [numSizeClasses]pageRefList

	_pad [cacheLinePad]byte
}

func (h *heap) init(id int32) {
	h.id = id
	h.freePages = singleList{}
	h.nFreePages = 0
	h.completePages = pageRefList{}
	h.largePages = pageRefList{}
	for i := range h.sizebases {
		h.sizebases[i] = pageRefList{}
	}
}

// isGlobal reports whether h is the global heap (heap index 0), which
// spec.md §3 says "is never selected by the front-end for
// allocation."
func (h *heap) isGlobal() bool {
	return h.id == 0
}
