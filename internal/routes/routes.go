package routes

import (
	"net/http"

	"node-cache-api/internal/handlers"
	"node-cache-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"entries": handlers.EntryCount(),
		})
	})

	// Public routes
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/nodes", handlers.GetNodes)
		protectedRoutes.POST("/nodes", handlers.CreateNode)
		protectedRoutes.GET("/nodes/:id/entry", handlers.GetNodeEntry)
		protectedRoutes.DELETE("/nodes/:id/entry", handlers.RemoveNodeEntry)
		protectedRoutes.GET("/users", handlers.GetAllUsers)
	}

	ginRouter.GET("/ws", middleware.JWTAuthMiddleware(), handlers.WebSocketHandler)

	return ginRouter
}
