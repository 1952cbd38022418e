// Package cpulocal detects the CPU count and maps the calling
// goroutine to a CPU index, the two primitives spec.md §6 requires of
// an external "CPU-count detection" collaborator.
package cpulocal

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Count returns the number of logical CPUs the front-end should size
// its per-CPU heap array to. Grounded on klauspost/cpuid/v2, the one
// dependency the retrieval pack supplies for exactly this concern
// (pulled in by the pack's libp2p-node module); runtime.NumCPU is the
// fallback when cpuid can't determine a core count (e.g. under an
// unrecognized hypervisor).
func Count() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
