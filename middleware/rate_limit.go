package middleware

import (
	"fmt"
	"time"

	apperrors "github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/services"
	"github.com/gin-gonic/gin"
)

// RateLimiter caps requests per client IP on the LLM-backed endpoints. The IP
// comes from c.ClientIP, so forwarding headers only count when the engine
// trusts the proxy that sent them.
// Limiter failures let the request through so a Redis outage does not take
// the API down with it.
func RateLimiter(limiter services.RateLimiterInterface, limit int, window time.Duration) gin.HandlerFunc {
	log := logger.GetLogger().Named("rate_limit")

	return func(c *gin.Context) {
		key := fmt.Sprintf("api:%s", c.ClientIP())

		allowed, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warnw("Rate limit check failed, allowing request",
				"key", key,
				"error", err,
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))

		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(retryAfter).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", seconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
