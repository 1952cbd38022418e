package alloc

import "unsafe"

// Superblock size: two OS pages, fixed regardless of host page size
// (spec.md §2/§3). Must stay a power of two — address masking in
// pageRefFor depends on it.
const superblockSize = 8192

// blockType tags what a superblock currently holds. Values 0..8 name
// a size class; freeBlockType and largeBlockType are the two sentinel
// tags spec.md §3 calls FREE and LARGE.
type blockType int32

const (
	freeBlockType  blockType = -1
	largeBlockType blockType = -2
)

// numSizeClasses is the nine fixed size classes of spec.md §3.
const numSizeClasses = 9

var classSizes = [numSizeClasses]uintptr{8, 16, 32, 64, 128, 256, 512, 1024, 2048}

// maxSmallSize is the largest request the small path serves; anything
// larger takes the large path (spec.md §3).
const maxSmallSize = 2048

// pageRef is the in-band superblock header (spec.md §3's PageRef). It
// lives at the start of every superblock, carved directly out of the
// arena's backing bytes via unsafe.Pointer — there is no separate
// metadata heap, which is the whole point of recovering it by address
// masking (spec.md §4.6, §9).
type pageRef struct {
	next  *pageRef // list successor; membership list depends on blockType/heapID
	prev  *pageRef // list predecessor; unused (nil) in the free-superblock list
	flist uintptr  // head of the intrusive in-superblock free list, as a raw address
	typ   blockType
	count int32 // free-block count (size-classed), run length (LARGE), unused (FREE)
	heapID int32
}

var pageRefHeaderSize = unsafe.Sizeof(pageRef{})

// usableBytes is the number of bytes available for blocks after the
// header, per superblock.
var usableBytes = uintptr(superblockSize) - pageRefHeaderSize

// capacityForClass is C(k) from spec.md §3: the number of blocks of
// class k that fit in one superblock's usable area.
func capacityForClass(k int) int32 {
	return int32(usableBytes / classSizes[k])
}

// pageRefFor recovers a superblock's header from any interior address
// by masking to 8KiB alignment (spec.md §4.1, §4.6). This is only
// valid when the arena guarantees superblock alignment; see
// alloc.lookupPageRef for the AVL fallback used otherwise.
func pageRefFor(addr uintptr) *pageRef {
	masked := addr &^ (superblockSize - 1)
	return (*pageRef)(unsafe.Pointer(masked))
}

func addrOf(p *pageRef) uintptr {
	return uintptr(unsafe.Pointer(p))
}
