package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/types"
)

// RegisterRoutes registers version routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/version", Get())
}

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Podbrief API",
			"version":     "1.0.0",
			"description": "API for downloading, transcribing and summarizing podcast episodes",
			"status":      "running",
		})
	}
}
