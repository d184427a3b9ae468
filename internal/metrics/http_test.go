package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	provider, err := NewProvider("http_test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
	router.GET("/v1/stock/:itemID", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/stock/abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// Metrics use the route pattern, not the raw path
	mw := httptest.NewRecorder()
	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(mw, mreq)

	output := mw.Body.String()
	assert.Contains(t, output, "http_test_http_requests_total")
	assert.Contains(t, output, `path="/v1/stock/:itemID"`)
	assert.NotContains(t, output, `path="/v1/stock/abc"`)
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	provider, err := NewProvider("http_unmatched")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_unmatched"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	mw := httptest.NewRecorder()
	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(mw, mreq)

	assert.Contains(t, mw.Body.String(), `path="unknown"`)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/stock/:itemID", sanitizePath("/v1/stock/:itemID"))
	assert.Equal(t, "unknown", sanitizePath(""))
}
