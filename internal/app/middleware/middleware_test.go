package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arch-advisor/pkg/logger"
)

func newTestEngine(log logger.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS())
	engine.Use(LoggingMiddleware(&LoggingConfig{
		SkipPaths: []string{"/health"},
		Logger:    log,
	}))
	engine.POST("/analyze", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	return engine
}

func TestCORS_Preflight(t *testing.T) {
	engine := newTestEngine(logger.Discard())

	for _, path := range []string{"/analyze", "/anything"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, strings.NewReader("garbage"))
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestCORS_HeaderOnEveryResponse(t *testing.T) {
	engine := newTestEngine(logger.Discard())

	for _, tc := range []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodPost, "/analyze", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, tc.code, w.Code, tc.path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), tc.path)
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	engine := newTestEngine(logger.New(logger.Config{Writer: &buf}))

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	requestID := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)
	assert.Contains(t, w.Body.String(), requestID)
	assert.Contains(t, buf.String(), "HTTP请求完成")
	assert.Contains(t, buf.String(), requestID)

	req = httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-id")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "caller-supplied-id", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	engine := newTestEngine(logger.New(logger.Config{Writer: &buf}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Empty(t, buf.String())
}
