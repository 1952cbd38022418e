//go:build linux

package arena

import "golang.org/x/sys/unix"

// reserve asks the OS for an anonymous mapping of n bytes. This is the
// sbrk-style primitive: the returned slice's address never changes
// for the lifetime of the process, matching spec.md §2's "never
// returns memory to the OS" contract — there is no munmap anywhere in
// this package.
func reserve(n uintptr) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return b, nil
}
