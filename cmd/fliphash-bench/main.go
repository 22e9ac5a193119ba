// Fliphash-bench measures range hashes: statistical quality (regularity,
// collisions, independence, monotonicity), speed, and reproducibility.
//
// Usage:
//
//	go run ./cmd/fliphash-bench regularity --range-end 999 --max-keys 100000000
//	go run ./cmd/fliphash-bench independence-across-ranges --range-end 9 --range-end 99
//	go run ./cmd/fliphash-bench perf
//	go run ./cmd/fliphash-bench hash --range-end 17 42
//
// Experiment results are written as JSON lines under the results directory,
// one file per experiment configuration. Interrupting a run stops it cleanly
// and keeps the summaries gathered so far.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
