package main

import (
	"log"
	"net/http"
	"os"

	"mealgate/internal/upstreamstub"
)

func main() {
	addr := ":" + getEnv("PORT", "7071")

	srv := upstreamstub.New()

	log.Printf("upstream stub running on %s", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
