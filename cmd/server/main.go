package main

import (
	"log"

	"hobbymatch-api/internal/config"
	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/realtime"
	"hobbymatch-api/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// Init database
	database.InitDB(cfg.DBPath)

	// Point the emit facade at the gateway of the instance hosting the hub
	realtime.Default = realtime.NewEmitter(cfg.EmitGatewayURL)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/profile")
	log.Println("  GET    /api/discover")
	log.Println("  POST   /api/swipes")
	log.Println("  POST   /api/friend-requests")
	log.Println("  GET    /api/events")
	log.Println("  POST   /api/chats/:id/messages")
	log.Println("  GET    /api/notifications")
	log.Println("  GET    /ws")
	log.Println("  POST   /emit")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
