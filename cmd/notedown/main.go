package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/notedown/notedown/pkg/noteapp"
)

func main() {
	// Cancel the root context on SIGINT/SIGTERM so the server drains
	// in-flight requests and the store connection closes before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := noteapp.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
