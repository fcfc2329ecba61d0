package main

import (
	"log"

	"yieldbook/internal/app/bootstrap"
)

// @title Yieldbook API
// @version 1.0
// @description Fractional-ownership yield distribution ledger.
// @BasePath /
func main() {
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api: %v", err)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		log.Fatalf("api server: %v", err)
	}
}
