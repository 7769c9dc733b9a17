package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{
			name:           "preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "regular GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS())
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", "https://example.com")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestSizeLimit(1024))
	router.POST("/test", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	t.Run("under limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"key": "value"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("over limit", func(t *testing.T) {
		payload := `{"key": "` + strings.Repeat("x", 2048) + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestRateLimiterPool(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pool := NewRateLimiterPool()
	t.Cleanup(pool.Stop)

	router := gin.New()
	router.Use(pool.Middleware("test", 1, 2))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	get := func(remoteAddr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = remoteAddr
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Burst of 2 allowed, third request is limited
	assert.Equal(t, http.StatusOK, get("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, get("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1:1234"))

	// A different client has its own bucket
	assert.Equal(t, http.StatusOK, get("10.0.0.2:1234"))
}

func TestRateLimiterPoolGroupsAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pool := NewRateLimiterPool()
	t.Cleanup(pool.Stop)

	router := gin.New()
	tight := router.Group("/tight")
	tight.Use(pool.Middleware("tight", 1, 1))
	tight.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	open := router.Group("/open")
	open.Use(pool.Middleware("open", 10, 10))
	open.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Exhausting one group's bucket leaves the other group untouched
	assert.Equal(t, http.StatusOK, get("/tight"))
	assert.Equal(t, http.StatusTooManyRequests, get("/tight"))
	assert.Equal(t, http.StatusOK, get("/open"))
}

func TestRateLimiterPoolStopTwice(t *testing.T) {
	pool := NewRateLimiterPool()
	pool.Stop()
	pool.Stop()
}
