package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/types"
	jobservice "github.com/podbrief/podbrief-api/internal/services/jobs"
)

// RegisterRoutes registers job routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("", List(deps))
	group.GET("/:id", Get(deps))
}

// Get returns the current state of one job
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid job ID",
			})
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, jobservice.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"status":  "error",
					"message": "Job not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to fetch job",
			})
			return
		}

		c.JSON(http.StatusOK, job)
	}
}

// List returns recent jobs, newest first
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 200 {
				c.JSON(http.StatusBadRequest, gin.H{
					"status":  "error",
					"message": "limit must be between 1 and 200",
				})
				return
			}
			limit = parsed
		}

		jobs, err := deps.JobService.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to list jobs",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"jobs":  jobs,
			"count": len(jobs),
		})
	}
}
