package middleware

import (
	"strconv"

	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware counts requests by matched route. Unmatched paths share
// one label so scanners cannot blow up the series count.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.Get().HTTPRequests.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
