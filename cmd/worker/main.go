package main // Activity log worker entry point

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/social-network-api/internal/queue"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	log.Printf("activity worker starting")
	if err := queue.StartActivityConsumer(); err != nil {
		log.Fatalf("activity consumer: %v", err)
	}
}
