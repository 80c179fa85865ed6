package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"office_web/internal/api/handlers"
	"office_web/internal/middleware"
	"office_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	authHandler := handlers.NewAuthHandler(services.User)
	chatHandler := handlers.NewChatHandler(services.Chat)
	meetingHandler := handlers.NewMeetingHandler(services.MeetingRoom, services.MeetingChat)
	wsHandler := handlers.NewWebSocketHandler(services.Hub)

	api := r.Group("/api")

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	// public routes
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// authenticated routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/users/me", authHandler.Me)

		chat := authorized.Group("/chat/rooms")
		{
			chat.GET("", chatHandler.ListRooms)
			chat.POST("/individual", chatHandler.CreateIndividualRoom)
			chat.POST("/group", chatHandler.CreateGroupRoom)
			chat.GET("/:id/members", chatHandler.RoomMembers)
			chat.GET("/:id/messages", chatHandler.RoomMessages)
			chat.POST("/:id/read", chatHandler.MarkAsRead)
			chat.POST("/:id/leave", chatHandler.LeaveRoom)
		}

		meetings := authorized.Group("/meetings")
		{
			meetings.GET("", meetingHandler.ListRooms)
			meetings.POST("", meetingHandler.CreateRoom)
			meetings.GET("/:id", meetingHandler.GetRoom)
			meetings.POST("/:id/join", meetingHandler.JoinRoom)
			meetings.POST("/:id/leave", meetingHandler.LeaveRoom)
			meetings.POST("/:id/close", meetingHandler.CloseRoom)
			meetings.GET("/:id/messages", meetingHandler.RoomMessages)
			meetings.DELETE("/:id/messages/:messageId", meetingHandler.DeleteMessage)
		}
	}

	// websocket endpoints (token via ?token= on upgrade)
	ws := r.Group("/ws")
	ws.Use(middleware.AuthMiddleware())
	{
		ws.GET("/chat", wsHandler.HandleChatSocket)
		ws.GET("/meeting", wsHandler.HandleMeetingSocket)
	}
}
