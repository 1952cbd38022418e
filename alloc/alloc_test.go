package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain brings the allocator up once, with a fixed P, for the
// whole package's tests — spec.md §8's migration scenario needs
// P >= 2, which a sandboxed single-core test runner might not have.
func TestMain(m *testing.M) {
	if err := initialize(4); err != nil {
		panic(err)
	}
	m.Run()
}

func TestSingleThreadSanity(t *testing.T) {
	// spec.md §8 scenario 1.
	p := Allocate(24)
	require.NotNil(t, p)
	b := (*[24]byte)(p)
	for i := range b {
		b[i] = 0xAB
	}
	Release(p)

	q := Allocate(24)
	require.NotNil(t, q)
	Release(q)
}

func TestAllocateZeroReturnsWritableBlock(t *testing.T) {
	// spec.md §8 boundary behavior: allocate(0) returns a valid
	// writable 8-byte block.
	p := Allocate(0)
	require.NotNil(t, p)
	*(*uint64)(p) = 0x1122334455667788
	assert.Equal(t, uint64(0x1122334455667788), *(*uint64)(p))
	Release(p)
}

func TestSizeClassBoundary(t *testing.T) {
	// spec.md §8: allocate(2048) uses class 8, allocate(2049) is large.
	h := heapAt(1)
	assert.Equal(t, 8, sizeClassFor(2048))
	p := Allocate(2048)
	require.NotNil(t, p)
	pr := pageRefFor(uintptr(p))
	assert.Equal(t, blockType(8), pr.typ)
	Release(p)

	q := Allocate(2049)
	require.NotNil(t, q)
	qr := pageRefFor(uintptr(q) - pageRefHeaderSize)
	assert.Equal(t, largeBlockType, qr.typ)
	Release(q)
	_ = h
}

func TestExhaustSuperblock(t *testing.T) {
	// spec.md §8 scenario 2: allocate C(0) blocks of size 8 from a
	// fresh class, all distinct, then one more, which also succeeds.
	// Which superblock that extra block comes from is not checked.
	n := int(capacityForClass(0))
	seen := make(map[uintptr]bool, n+1)
	var addrs []unsafe.Pointer
	for i := 0; i < n; i++ {
		p := Allocate(8)
		require.NotNil(t, p)
		addr := uintptr(p)
		require.False(t, seen[addr], "duplicate address returned by Allocate")
		seen[addr] = true
		addrs = append(addrs, p)
	}

	extra := Allocate(8)
	require.NotNil(t, extra)
	addrs = append(addrs, extra)

	for _, p := range addrs {
		Release(p)
	}
}

func TestFreeListReuse(t *testing.T) {
	// spec.md §8 scenario 3: allocate one size-8 block, release it, and
	// the next allocate(8) returns that same address.
	p := Allocate(8)
	require.NotNil(t, p)
	Release(p)

	q := Allocate(8)
	require.NotNil(t, q)
	assert.Equal(t, p, q)
	Release(q)
}

func TestReleaseNilIsNoop(t *testing.T) {
	Release(nil)
}

func TestDoubleFreeIsTolerated(t *testing.T) {
	p := Allocate(16)
	require.NotNil(t, p)
	Release(p)
	assert.NotPanics(t, func() {
		Release(p)
	})
}

func TestFullSuperblockReturnsToFreePages(t *testing.T) {
	// spec.md §8: allocating every block of a fresh superblock and
	// freeing them all returns the superblock to some heap's
	// free_pages with block_type FREE.
	n := int(capacityForClass(2)) // size class 32
	ptrs := make([]unsafe.Pointer, 0, n)
	for i := 0; i < n; i++ {
		p := Allocate(32)
		require.NotNil(t, p)
		ptrs = append(ptrs, p)
	}
	pr := pageRefFor(uintptr(ptrs[0]))
	for _, p := range ptrs {
		Release(p)
	}
	assert.Equal(t, freeBlockType, pr.typ)
}

func TestLargeRoundTrip(t *testing.T) {
	// spec.md §8 scenario 5: a 10000-byte request consumes two
	// superblocks and returns them to free_pages on release, less the
	// one superblock the migration that follows moves to the global
	// heap when the local heap then holds more than two.
	p := Allocate(10000)
	require.NotNil(t, p)

	pr := pageRefFor(uintptr(p) - pageRefHeaderSize)
	assert.Equal(t, int32(2), pr.count)

	h := heapAt(pr.heapID)
	before := h.nFreePages
	migBefore := MigrationCount()
	Release(p)
	migrated := int32(MigrationCount() - migBefore)
	assert.Equal(t, before+2-migrated, h.nFreePages)
}

func TestMigrationMovesSuperblockToGlobal(t *testing.T) {
	// spec.md §8 scenario 4: fill three class-0 superblocks on one heap
	// and only then free every block, leaving three fully-free
	// superblocks; the free that takes n_free_pages past 2 migrates one.
	h := heapAt(1)

	var ptrs []unsafe.Pointer
	for i := 0; i < 3; i++ {
		n := int(capacityForClass(0))
		for j := 0; j < n; j++ {
			p := Allocate(8)
			require.NotNil(t, p)
			addr := uintptr(p)
			require.Equal(t, int32(1), pageRefFor(addr).heapID)
			ptrs = append(ptrs, p)
		}
	}
	for _, p := range ptrs {
		Release(p)
	}

	g := globalHeap()
	assert.LessOrEqual(t, h.nFreePages, int32(2))
	assert.Greater(t, g.nFreePages, int32(0))
}

func TestCrossCPUFreeReturnsToAllocatingHeap(t *testing.T) {
	// spec.md §8 scenario 6: the block's header carries heap_id, so a
	// free from a different CPU still returns it to the allocating
	// heap's lists, not the freeing CPU's. The release runs on another
	// goroutine, which the scheduler is free to place on another CPU.
	h1 := heapAt(1)
	p := Allocate(8)
	require.NotNil(t, p)
	pr := pageRefFor(uintptr(p))
	require.Equal(t, h1.id, pr.heapID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		Release(p)
	}()
	<-done
	assert.Equal(t, h1.id, pr.heapID)
}
