package feeds

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/types"
)

// Request is the body for adding or removing feed sources
type Request struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

// RegisterRoutes registers feed source routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("", List(deps))
	group.POST("", Add(deps))
	group.DELETE("", Remove(deps))
}

// List returns configured feed sources in order
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sources, err := deps.FeedSourceService.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to list feeds",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"feeds": sources,
			"count": len(sources),
		})
	}
}

// Add registers feed URLs, skipping any already present
func Add(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "urls is required",
			})
			return
		}

		added, err := deps.FeedSourceService.Add(c.Request.Context(), req.URLs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status": "ok",
			"added":  added,
		})
	}
}

// Remove deletes feed sources by URL, tolerating unknown URLs
func Remove(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "urls is required",
			})
			return
		}

		removed, err := deps.FeedSourceService.Remove(c.Request.Context(), req.URLs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to remove feeds",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"removed": removed,
		})
	}
}
