// Command ggmark renders data-bound text labels from YAML job files.
//
//	ggmark render job.yaml            # writes job.png
//	ggmark render --watch job.yaml    # re-renders when the job or its data changes
//	ggmark inspect job.yaml           # prints resolved label attributes per row
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
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
