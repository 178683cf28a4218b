package main

import (
	"log"

	"github.com/MrSnakeDoc/brainlink/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ brainlink failed to start: %v", err)
	}
}
