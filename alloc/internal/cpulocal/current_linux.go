//go:build linux

package cpulocal

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Current returns a non-negative, not-necessarily-dense CPU index for
// the calling thread, per spec.md §6's current_cpu() contract. It is
// read fresh on every call — the front-end dispatch (§4.1) is dynamic
// per allocate, never a cached or pinned affinity.
//
// SYS_GETCPU is the same raw syscall the retrieval pack's gVisor and
// gcsfuse fragments reach for when they need real CPU/NUMA placement
// instead of Go's own scheduler abstractions; unix.Syscall is used
// directly because x/sys/unix does not wrap getcpu itself.
func Current() int {
	var cpu, node uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return roundRobin()
	}
	return int(cpu)
}
