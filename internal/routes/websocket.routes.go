package routes

import (
	"fsgraph/internal/controllers"
	"fsgraph/internal/middleware"
	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the WebSocket navigation endpoint
func RegisterWebSocketRoutes(r gin.IRouter, hub *services.WebSocketHub, allowedOrigins []string, security *middleware.SecurityLogger) {
	r.GET("/ws", controllers.HandleWebSocket(hub, allowedOrigins, security))
}
