// Package arena implements the sbrk-style arena provider spec.md §6
// specifies as an external collaborator: a single, monotonically
// growing contiguous byte region with a process-wide lock serializing
// growth, the same "arena_start/arena_used/arena_end, never shrinks"
// contract the teacher's mheap keeps (see mheap.go's arena_start/
// arena_used/arena_end fields).
package arena

import (
	"sync"

	"github.com/pkg/errors"
)

// reserveSize is how much address space is reserved up front. On
// Linux the reservation is an anonymous mmap, so pages are not
// actually resident until touched — reserving generously costs no
// physical memory and means the region never has to move, which is
// what lets the allocator recover a PageRef by masking an address
// (spec.md §4.6) instead of indirecting through a lookup table.
const reserveSize = 1 << 34 // 16 GiB of address space, paged in lazily

// Arena is the process-wide growable byte region. Zero value is not
// usable; call Init first.
type Arena struct {
	mu sync.Mutex

	region []byte // backing storage, see platform-specific reserve()
	used   uintptr
}

// ErrArenaInit is wrapped by platform Init failures.
var ErrArenaInit = errors.New("arena: failed to reserve address space")

// Init reserves the arena's backing address space. Must be called
// exactly once before Grow, Lo, or Hi.
func (a *Arena) Init() error {
	region, err := reserve(reserveSize)
	if err != nil {
		return errors.Wrap(ErrArenaInit, err.Error())
	}
	a.region = region
	a.used = 0
	return nil
}

// Grow extends the arena by exactly n bytes and returns a pointer to
// the new region, or nil if the reservation is exhausted. Callers
// serialize with their own lock (the allocator's single arena
// spinlock, per spec.md §5); Grow additionally guards its own state
// with a plain mutex since committing pages is not a hot path worth
// spinning over.
func (a *Arena) Grow(n uintptr) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.used+n > uintptr(len(a.region)) {
		return nil
	}
	start := a.used
	a.used += n
	return a.region[start : start+n : start+n]
}

// Lo returns the arena's lower bound (inclusive).
func (a *Arena) Lo() uintptr {
	return sliceAddr(a.region)
}

// Hi returns the arena's current upper bound (exclusive), i.e. the
// address one past the last committed byte. It moves forward as Grow
// is called; spec.md §6 requires lo/hi to be "pointers bounding the
// current arena," not the full reservation.
func (a *Arena) Hi() uintptr {
	return sliceAddr(a.region) + a.used
}
