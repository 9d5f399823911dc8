// Command sercha-ask indexes documents and answers questions from them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = ""

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()

	// Cobra has already printed the error.
	if err != nil {
		os.Exit(1)
	}
}
