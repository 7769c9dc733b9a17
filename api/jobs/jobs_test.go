package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief-api/api/types"
	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
	jobservice "github.com/podbrief/podbrief-api/internal/services/jobs"
)

func setupJobsRouter(t *testing.T) (*gin.Engine, jobservice.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}))
	t.Cleanup(func() { _ = db.Close() })

	jobService := jobservice.NewService(jobservice.NewRepository(db.DB), 0)

	engine := gin.New()
	group := engine.Group("/api/v1/jobs")
	RegisterRoutes(group, &types.Dependencies{JobService: jobService})
	return engine, jobService
}

func TestGetJob(t *testing.T) {
	engine, jobService := setupJobsRouter(t)

	job, err := jobService.EnqueueEpisodeJob(context.Background(), "https://example.com/ep.mp3", "", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", job.ID), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(job.ID), body["ID"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "episode_processing", body["type"])
}

func TestGetJobNotFound(t *testing.T) {
	engine, _ := setupJobsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/9999", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobInvalidID(t *testing.T) {
	engine, _ := setupJobsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/not-a-number", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListJobs(t *testing.T) {
	engine, jobService := setupJobsRouter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := jobService.EnqueueEpisodeJob(ctx, fmt.Sprintf("https://example.com/ep%d.mp3", i), "", false)
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["count"])
	assert.Len(t, body["jobs"], 3)
}

func TestListJobsLimitValidation(t *testing.T) {
	engine, _ := setupJobsRouter(t)

	for _, limit := range []string{"0", "201", "-5", "abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit="+limit, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "limit: %s", limit)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit=5", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
