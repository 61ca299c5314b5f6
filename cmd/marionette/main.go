package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/marionette/cmd"
	"github.com/xkilldash9x/marionette/internal/observability"
)

func main() {
	// Flush logs on every exit path.
	defer observability.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			// Graceful shutdown is a clean exit.
			return
		}
		observability.Sync()
		os.Exit(1)
	}
}
