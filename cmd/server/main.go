package main

import (
	"log"

	"node-cache-api/internal/config"
	"node-cache-api/internal/database"
	"node-cache-api/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	database.InitDB(cfg.DBPath)

	ginRoutes := routes.SetupRoutes()

	log.Printf("Server starting on %s", cfg.Addr())
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/nodes")
	log.Println("  POST   /api/nodes")
	log.Println("  GET    /api/nodes/:id/entry")
	log.Println("  DELETE /api/nodes/:id/entry")
	log.Println("  GET    /api/users")
	log.Println("  GET    /ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
