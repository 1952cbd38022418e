// Command palloc-bench drives the alloc package's allocator from the
// outside: a throughput benchmark and an invariant-stress check, the
// "allocator-benchmark harness" SPEC_FULL.md §6.4 names as peripheral
// plumbing around the core library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "palloc-bench: failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := alloc.Initialize(); err != nil {
		logger.Fatal("allocator initialization failed", zap.Error(err))
	}

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "palloc-bench",
		Short: "Benchmark and stress-test the parallel memory allocator",
	}
	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newStressCmd(logger))
	return root
}
