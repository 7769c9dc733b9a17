package history

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/types"
)

// RegisterRoutes registers history routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("", List(deps))
	group.DELETE("", Clear(deps))
	group.DELETE("/:key", Remove(deps))
}

// List returns all processed-episode records, most recent first
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := deps.HistoryService.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to list history",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"records": records,
			"count":   len(records),
		})
	}
}

// Clear empties the processing history. Cleared episodes become
// eligible for reprocessing without a force flag.
func Clear(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.HistoryService.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to clear history",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "History cleared",
		})
	}
}

// Remove deletes a single record by episode key
func Remove(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		if err := deps.HistoryService.Remove(c.Request.Context(), key); err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "History record not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "History record removed",
		})
	}
}
