package services

import (
	"context"
	"time"

	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyChecker reports whether an upstream client has credentials.
type KeyChecker interface {
	HasAPIKey() bool
}

// HealthService reports on the dependencies the API needs to do useful work.
// Redis is optional; without it the component is omitted.
type HealthService struct {
	redisClient *redis.Client
	llmClients  map[string]KeyChecker
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(redisClient *redis.Client, llmClients map[string]KeyChecker, version string) *HealthService {
	return &HealthService{
		redisClient: redisClient,
		llmClients:  llmClients,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	merge := func(name string, c types.HealthComponent) {
		components[name] = c
		switch {
		case c.Status == types.HealthStatusDown:
			overallStatus = types.HealthStatusDown
		case c.Status == types.HealthStatusDegraded && overallStatus != types.HealthStatusDown:
			overallStatus = types.HealthStatusDegraded
		}
	}

	if h.redisClient != nil {
		merge("redis", h.checkRedis(ctx))
	}
	// A missing key disables one feature, not the whole API.
	for name, client := range h.llmClients {
		merge(name, h.checkKey(client))
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkKey(client KeyChecker) types.HealthComponent {
	if !client.HasAPIKey() {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "API key not configured",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
