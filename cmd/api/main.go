package main

import (
	"log"

	"github.com/madsbk/sqlbridge/internal/api"
)

func main() {
	srv, err := api.NewServer()
	if err != nil {
		log.Fatalf("api server setup failed: %v", err)
	}
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
