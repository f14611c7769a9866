// Command gotoken-loadtest drives a Manager concurrently and reports throughput,
// latency percentiles, and refresh single-use violations.
//
//	gotoken-loadtest --pairs 10000 --concurrency 128 --ops 100000
//	GOTOKEN_REDIS_ADDR=localhost:6379 gotoken-loadtest --race-width 32
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
