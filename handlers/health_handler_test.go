package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BillChill/billchill-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupHealthRouter(checker HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHealthHandler(checker)
	r.GET("/health", h.Health)
	r.GET("/health/liveness", h.LivenessCheck)
	r.GET("/health/readiness", h.ReadinessCheck)
	return r
}

func TestHealth(t *testing.T) {
	checker := new(MockHealthChecker)
	w := httptest.NewRecorder()

	setupHealthRouter(checker).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	checker.AssertNotCalled(t, "CheckHealth", mock.Anything)
}

func TestLivenessCheck(t *testing.T) {
	w := httptest.NewRecorder()
	setupHealthRouter(new(MockHealthChecker)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name         string
		status       types.HealthStatus
		expectedCode int
	}{
		{"up", types.HealthStatusUp, http.StatusOK},
		{"degraded still serves", types.HealthStatusDegraded, http.StatusOK},
		{"down", types.HealthStatusDown, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockHealthChecker)
			checker.On("CheckHealth", mock.Anything).Return(types.HealthCheck{
				Status: tt.status,
				Components: map[string]types.HealthComponent{
					"redis": {Status: tt.status},
				},
				Version: "1.0.0",
			})

			w := httptest.NewRecorder()
			setupHealthRouter(checker).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			var body types.HealthCheck
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "1.0.0", body.Version)
		})
	}
}
