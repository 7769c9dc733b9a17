package process

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief-api/api/types"
	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/internal/services/jobs"
)

func setupProcessRouter(t *testing.T) (*gin.Engine, jobs.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}))
	t.Cleanup(func() { _ = db.Close() })

	jobService := jobs.NewService(jobs.NewRepository(db.DB), 0)

	engine := gin.New()
	group := engine.Group("/api/v1/process")
	RegisterRoutes(group, &types.Dependencies{JobService: jobService})
	return engine, jobService
}

func TestEpisodeAccepted(t *testing.T) {
	engine, jobService := setupProcessRouter(t)

	payload := `{"url": "https://example.com/ep.mp3", "title": "My Episode", "force": true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["status"])
	jobID := uint(body["job_id"].(float64))

	job, err := jobService.GetJob(req.Context(), jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeEpisodeProcessing, job.Type)

	url, _ := job.GetPayloadString(jobs.PayloadURL)
	assert.Equal(t, "https://example.com/ep.mp3", url)
	force, _ := job.GetPayloadBool(jobs.PayloadForce)
	assert.True(t, force)
}

func TestEpisodeRequiresURL(t *testing.T) {
	engine, _ := setupProcessRouter(t)

	for _, payload := range []string{`{}`, `{"title": "no url"}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "payload: %s", payload)
	}
}

func TestFeedsAccepted(t *testing.T) {
	engine, jobService := setupProcessRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/feeds", bytes.NewBufferString(`{"all": true}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	jobID := uint(body["job_id"].(float64))

	job, err := jobService.GetJob(req.Context(), jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeFeedProcessing, job.Type)
	all, _ := job.GetPayloadBool(jobs.PayloadAll)
	assert.True(t, all)
}

func TestFeedsBodyOptional(t *testing.T) {
	engine, _ := setupProcessRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/feeds", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
