package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	workers := flag.Int("workers", 0, "Render workers per request (0 = one per CPU)")
	flag.Parse()

	if *workers < 0 {
		log.Printf("Error: -workers must not be negative")
		os.Exit(1)
	}
	if *workers == 0 {
		*workers = renderer.DefaultWorkerCount()
	}

	// Create and start web server
	webServer := server.NewServer(*port, *workers)

	log.Printf("Realtime Path Tracer Preview Server (%d workers per render)", *workers)
	log.Printf("Try http://localhost:%d/api/frame?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
