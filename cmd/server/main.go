package main

import (
	"log"
	"net/http"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/logger"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router (recovery + request logging attached inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := config.GetEnv("LISTEN_ADDR", "0.0.0.0:8080")
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
