package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/leettrack-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown cleanup failed: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", runErr)
		os.Exit(1)
	}
}
