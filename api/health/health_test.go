package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief-api/api/types"
	"github.com/podbrief/podbrief-api/internal/database"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy with database", func(t *testing.T) {
		db, err := database.Initialize(":memory:", false)
		require.NoError(t, err)
		defer db.Close()

		engine := gin.New()
		RegisterRoutes(engine, &types.Dependencies{DB: db})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])

		dbStatus, ok := body["database"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "healthy", dbStatus["status"])
	})

	t.Run("without database", func(t *testing.T) {
		engine := gin.New()
		RegisterRoutes(engine, &types.Dependencies{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		dbStatus, ok := body["database"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "not configured", dbStatus["status"])
	})

	t.Run("with closed database", func(t *testing.T) {
		db, err := database.Initialize(":memory:", false)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		engine := gin.New()
		RegisterRoutes(engine, &types.Dependencies{DB: db})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		dbStatus, ok := body["database"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "unhealthy", dbStatus["status"])
	})
}
