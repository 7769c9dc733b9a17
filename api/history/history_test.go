package history

import (
	"context"
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
	historyservice "github.com/podbrief/podbrief-api/internal/services/history"
)

func setupHistoryRouter(t *testing.T) (*gin.Engine, historyservice.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.HistoryRecord{}))
	t.Cleanup(func() { _ = db.Close() })

	service := historyservice.NewService(historyservice.NewRepository(db.DB))

	engine := gin.New()
	group := engine.Group("/api/v1/history")
	RegisterRoutes(group, &types.Dependencies{HistoryService: service})
	return engine, service
}

func markEpisode(t *testing.T, service historyservice.Service, key, title string) {
	t.Helper()
	require.NoError(t, service.MarkProcessed(context.Background(), &models.HistoryRecord{
		EpisodeKey: key,
		Title:      title,
		SourceURL:  "https://example.com/" + key + ".mp3",
		Success:    true,
	}))
}

func TestListHistory(t *testing.T) {
	engine, service := setupHistoryRouter(t)

	markEpisode(t, service, "key-one", "Episode One")
	markEpisode(t, service, "key-two", "Episode Two")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}

func TestListHistoryEmpty(t *testing.T) {
	engine, _ := setupHistoryRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["count"])
}

func TestClearHistory(t *testing.T) {
	engine, service := setupHistoryRouter(t)
	markEpisode(t, service, "key-one", "Episode One")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	processed, err := service.IsProcessed(context.Background(), "key-one")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRemoveHistoryRecord(t *testing.T) {
	engine, service := setupHistoryRouter(t)
	markEpisode(t, service, "key-one", "Episode One")
	markEpisode(t, service, "key-two", "Episode Two")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/history/key-one", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	processed, err := service.IsProcessed(ctx, "key-one")
	require.NoError(t, err)
	assert.False(t, processed)

	processed, err = service.IsProcessed(ctx, "key-two")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestRemoveHistoryRecordNotFound(t *testing.T) {
	engine, _ := setupHistoryRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/history/missing-key", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
