package routes

import (
	"fsgraph/internal/controllers"
	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterFilesystemRoutes registers the navigation endpoints
func RegisterFilesystemRoutes(r gin.IRouter, nav *services.NavigationService, volumes *services.VolumeCache) {
	api := r.Group("/api")
	{
		api.POST("/filesystem", controllers.HandleLoadRoot(nav))
		api.POST("/expand", controllers.HandleExpand(nav))
		api.POST("/parent", controllers.HandleParent(nav))
		api.GET("/volume", controllers.HandleVolume(nav, volumes))
	}
}
