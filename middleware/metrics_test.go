package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.ResetForTesting()

	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/2", nil))

	counter := metrics.Get().HTTPRequests
	assert.Equal(t, 3.0, testutil.ToFloat64(counter.WithLabelValues("/health", "GET", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("unmatched", "GET", "404")))
}
