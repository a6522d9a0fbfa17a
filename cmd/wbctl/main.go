// Package main is wbctl, an operator CLI that runs one provisioning
// operation against the configured website builder and prints the result
// as JSON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version is injected via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(wireService))

	stop()
	os.Exit(code)
}
