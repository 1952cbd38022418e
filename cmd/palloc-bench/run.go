package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koko1996/Parallel-Memory-Allocator/alloc"
)

func newRunCmd(logger *zap.Logger) *cobra.Command {
	var (
		threads     int
		size        int
		iters       int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run N goroutines doing allocate/release cycles and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(logger, threads, size, iters, metricsAddr)
		},
	}

	cmd.Flags().IntVar(&threads, "threads", 4, "number of concurrent goroutines")
	cmd.Flags().IntVar(&size, "size", 32, "allocation size in bytes per cycle")
	cmd.Flags().IntVar(&iters, "iters", 100000, "allocate/release cycles per goroutine")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, also serve Prometheus metrics on this address while the run lasts")

	return cmd
}

func runBench(logger *zap.Logger, threads, size, iters int, metricsAddr string) error {
	if threads <= 0 || iters <= 0 || size < 0 {
		return fmt.Errorf("palloc-bench run: threads, iters must be positive and size non-negative")
	}

	m := newMetrics()
	baseMigrations := alloc.MigrationCount()
	baseArenaGrowth := alloc.ArenaGrowthCount()

	var srv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	var wg sync.WaitGroup
	start := time.Now()
	wg.Add(threads)
	for g := 0; g < threads; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				p := alloc.Allocate(uintptr(size))
				m.allocs.Inc()
				m.bytesReqs.Add(float64(size))
				if p == nil {
					logger.Warn("arena exhausted mid-run")
					return
				}
				alloc.Release(p)
				m.frees.Inc()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	m.sampleAllocatorCounters(baseMigrations, baseArenaGrowth)

	total := threads * iters
	logger.Info("run complete",
		zap.Int("threads", threads),
		zap.Int("size", size),
		zap.Int("iters_per_thread", iters),
		zap.Int("total_cycles", total),
		zap.Duration("elapsed", elapsed),
		zap.Float64("cycles_per_sec", float64(total)/elapsed.Seconds()),
		zap.Int64("migrations", alloc.MigrationCount()-baseMigrations),
		zap.Int64("arena_growths", alloc.ArenaGrowthCount()-baseArenaGrowth),
	)
	return nil
}
