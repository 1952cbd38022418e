package main

import (
	"fmt"
	"unsafe"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc"
)

// classSizes mirrors the allocator's own nine fixed size classes, plus
// one large-path request, so `stress --classes` exercises every path
// Allocate can take.
var classSizes = []uintptr{8, 16, 32, 64, 128, 256, 512, 1024, 2048, 5000}

func newStressCmd(logger *zap.Logger) *cobra.Command {
	var classes bool

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Exercise every size class plus the large path, checking basic invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !classes {
				return fmt.Errorf("palloc-bench stress: pass --classes to select what to stress")
			}
			return stressClasses(logger)
		},
	}

	cmd.Flags().BoolVar(&classes, "classes", false, "stress every size class plus the large path")
	return cmd
}

func stressClasses(logger *zap.Logger) error {
	violations := 0

	for _, size := range classSizes {
		const n = 64
		ptrs := make([]unsafe.Pointer, 0, n)
		seen := make(map[uintptr]bool, n)

		for i := 0; i < n; i++ {
			p := alloc.Allocate(size)
			if p == nil {
				logger.Error("allocate returned nil", zap.Uintptr("size", size))
				violations++
				continue
			}
			addr := uintptr(p)
			if addr%8 != 0 {
				logger.Error("unaligned pointer", zap.Uintptr("size", size), zap.Uintptr("addr", addr))
				violations++
			}
			if seen[addr] {
				logger.Error("duplicate live pointer", zap.Uintptr("size", size), zap.Uintptr("addr", addr))
				violations++
			}
			seen[addr] = true
			ptrs = append(ptrs, p)
		}

		for _, p := range ptrs {
			alloc.Release(p)
		}

		// Double-free must not panic: spec.md tolerates it silently.
		if len(ptrs) > 0 {
			alloc.Release(ptrs[0])
		}

		logger.Info("class stressed", zap.Uintptr("size", size), zap.Int("count", n))
	}

	if violations > 0 {
		return fmt.Errorf("palloc-bench stress: %d invariant violation(s)", violations)
	}
	logger.Info("stress complete: no invariant violations")
	return nil
}
