package controllers

import (
	"net/http"

	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleVolume returns usage of the filesystem holding ?path= (home by default)
func HandleVolume(nav *services.NavigationService, cache *services.VolumeCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := nav.Resolve(c.DefaultQuery("path", nav.HomeDir()))

		volume, err := cache.Get(path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, volume)
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
