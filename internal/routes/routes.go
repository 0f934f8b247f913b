package routes

import (
	"hobbymatch-api/internal/handlers"
	"hobbymatch-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Server Hobbymatch API is running in Health Check Endpoint",
		})
	})

	// Cross-process broadcast gateway. Registered for any method so the
	// handler itself can answer 405 on anything but POST.
	ginRouter.Any("/emit", handlers.Emit)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Profile endpoints
		protectedRoutes.GET("/profile", handlers.GetProfile)
		protectedRoutes.PUT("/profile", handlers.UpdateProfile)
		protectedRoutes.GET("/profile/onboarding", handlers.GetOnboardingStatus)
		protectedRoutes.PUT("/profile/hobbies", handlers.SetHobbies)
		protectedRoutes.GET("/hobbies", handlers.GetHobbies)
		protectedRoutes.GET("/discover", handlers.Discover)
		// Swipe endpoints
		protectedRoutes.POST("/swipes", handlers.CreateSwipe)
		protectedRoutes.GET("/matches", handlers.GetMatches)
		// Friend endpoints
		protectedRoutes.POST("/friend-requests", handlers.CreateFriendRequest)
		protectedRoutes.GET("/friend-requests", handlers.GetFriendRequests)
		protectedRoutes.POST("/friend-requests/:id/accept", handlers.AcceptFriendRequest)
		protectedRoutes.POST("/friend-requests/:id/decline", handlers.DeclineFriendRequest)
		protectedRoutes.GET("/friends", handlers.GetFriends)
		// Event endpoints
		protectedRoutes.GET("/events", handlers.GetEvents)
		protectedRoutes.POST("/events", handlers.CreateEvent)
		protectedRoutes.GET("/events/:id", handlers.GetEventByID)
		protectedRoutes.PUT("/events/:id", handlers.UpdateEvent)
		protectedRoutes.DELETE("/events/:id", handlers.DeleteEvent)
		protectedRoutes.POST("/events/:id/join-requests", handlers.CreateJoinRequest)
		protectedRoutes.POST("/events/:id/join-requests/:reqId/approve", handlers.ApproveJoinRequest)
		protectedRoutes.POST("/events/:id/join-requests/:reqId/reject", handlers.RejectJoinRequest)
		protectedRoutes.POST("/events/:id/leave", handlers.LeaveEvent)
		// Chat endpoints
		protectedRoutes.GET("/chats", handlers.GetChats)
		protectedRoutes.POST("/chats", handlers.OpenChat)
		protectedRoutes.GET("/chats/:id/messages", handlers.GetMessages)
		protectedRoutes.POST("/chats/:id/messages", handlers.SendMessage)
		// Notification endpoints
		protectedRoutes.GET("/notifications", handlers.GetNotifications)
		protectedRoutes.POST("/notifications/:id/read", handlers.MarkNotificationRead)
		protectedRoutes.DELETE("/notifications", handlers.ClearNotifications)
	}

	// WebSocket endpoint (token via query param, handled by the middleware)
	ginRouter.GET("/ws", middleware.JWTAuthMiddleware(), handlers.WebSocketHandler)

	return ginRouter
}
