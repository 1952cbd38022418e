package cpulocal

import "sync/atomic"

var rrCounter uint64

// roundRobin is the portable fallback CPU-index source shared by both
// the Linux and non-Linux Current implementations.
func roundRobin() int {
	n := atomic.AddUint64(&rrCounter, 1)
	c := Count()
	if c <= 0 {
		c = 1
	}
	return int(n % uint64(c))
}
