package api

import (
	"github.com/gin-gonic/gin"

	"github.com/podbrief/podbrief-api/api/feeds"
	"github.com/podbrief/podbrief-api/api/health"
	historyroutes "github.com/podbrief/podbrief-api/api/history"
	jobroutes "github.com/podbrief/podbrief-api/api/jobs"
	"github.com/podbrief/podbrief-api/api/process"
	"github.com/podbrief/podbrief-api/api/types"
	"github.com/podbrief/podbrief-api/api/version"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiterPool) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	// Processing triggers downloads and model calls, so the limit is
	// deliberately tight (2 req/s, burst of 5)
	processGroup := v1.Group("/process")
	processGroup.Use(limiters.Middleware("process", 2, 5))
	process.RegisterRoutes(processGroup, deps)

	// Read-mostly routes get general rate limiting (10 req/s, burst of 20)
	jobGroup := v1.Group("/jobs")
	jobGroup.Use(limiters.Middleware("read", 10, 20))
	jobroutes.RegisterRoutes(jobGroup, deps)

	historyGroup := v1.Group("/history")
	historyGroup.Use(limiters.Middleware("read", 10, 20))
	historyroutes.RegisterRoutes(historyGroup, deps)

	feedGroup := v1.Group("/feeds")
	feedGroup.Use(limiters.Middleware("read", 10, 20))
	feeds.RegisterRoutes(feedGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
