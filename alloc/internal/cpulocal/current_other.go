//go:build !linux

package cpulocal

// Current falls back to a round-robin counter on platforms without a
// getcpu-style syscall exposed through x/sys/unix. Correctness of the
// allocator never depends on this being precise: a stale CPU index
// just means a thread feeds from a different local heap than the one
// the OS scheduler actually ran it on, which spec.md §5 already
// tolerates (ownership is recovered from the block's own header, not
// from the allocating CPU).
func Current() int {
	return roundRobin()
}
