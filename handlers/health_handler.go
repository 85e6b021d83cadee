package handlers

import (
	"net/http"

	"github.com/BillChill/billchill-backend/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService HealthChecker
}

func NewHealthHandler(healthService HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// Health godoc
// @Summary Plain uptime check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]bool "Service is up"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LivenessCheck godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /health/liveness [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck godoc
// @Summary Readiness probe with component report
// @Description Returns 503 when a required component is down.
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthCheck "Component report"
// @Failure 503 {object} types.HealthCheck "A required component is down"
// @Router /health/readiness [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}
