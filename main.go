package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sadopc/quadra/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// cobra has already printed the error.
	if err := commands.New().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
