package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"yieldbook/internal/app/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}
}
