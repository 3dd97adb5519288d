// Package main provides the entry point for leettrackctl.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/leettrack-backend/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.Execute(ctx)
}
