package main

import (
	"log"
	"net/http"
	"os"

	"github.com/habeebamz/cycling-app-sub000/internal/service/storage"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; deployments can set the variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	dbPath := os.Getenv("CYCLING_DB")
	if dbPath == "" {
		dbPath = "cycling.db"
	}
	addr := os.Getenv("CYCLING_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	store, err := storage.NewService(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	app := NewApp(store)

	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, app.routes()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
