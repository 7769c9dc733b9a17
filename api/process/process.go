package process

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/types"
)

// EpisodeRequest is the body for single-episode processing
type EpisodeRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
	Force bool   `json:"force"`
}

// FeedsRequest is the body for processing configured feeds
type FeedsRequest struct {
	Force bool `json:"force"`
	All   bool `json:"all"`
}

// RegisterRoutes registers processing routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Episode(deps))
	group.POST("/feeds", Feeds(deps))
}

// Episode accepts a single episode URL for asynchronous processing.
// The request returns immediately with the queued job; clients poll
// the jobs endpoint for progress.
func Episode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EpisodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "url is required",
			})
			return
		}

		job, err := deps.JobService.EnqueueEpisodeJob(c.Request.Context(), req.URL, req.Title, req.Force)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to enqueue episode",
			})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id": job.ID,
			"status": job.Status,
		})
	}
}

// Feeds queues processing of every configured feed source
func Feeds(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeedsRequest
		// Body is optional; defaults apply when absent
		_ = c.ShouldBindJSON(&req)

		job, err := deps.JobService.EnqueueFeedJob(c.Request.Context(), req.Force, req.All)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to enqueue feed processing",
			})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job_id": job.ID,
			"status": job.Status,
		})
	}
}
