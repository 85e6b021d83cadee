package router

import (
	"time"

	"github.com/BillChill/billchill-backend/config"
	"github.com/BillChill/billchill-backend/handlers"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/middleware"
	"github.com/BillChill/billchill-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	HealthHandler   *handlers.HealthHandler
	HospitalHandler *handlers.HospitalHandler
	DisputeHandler  *handlers.DisputeHandler
	// RateLimiter guards the model-backed endpoints. Nil disables limiting.
	RateLimiter services.RateLimiterInterface
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		logger.GetLogger().Warnw("Invalid trusted proxies, ignoring forwarding headers",
			"trusted_proxies", deps.Config.Server.TrustedProxies,
			"error", err,
		)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// Each call here costs an LLM request.
		modelRoutes := api.Group("")
		if deps.RateLimiter != nil {
			window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
			modelRoutes.Use(middleware.RateLimiter(deps.RateLimiter, deps.Config.RateLimit.RequestsPerMinute, window))
		}

		api.OPTIONS("/hospitals", deps.HospitalHandler.Preflight)
		modelRoutes.POST("/hospitals", deps.HospitalHandler.SearchHospitals)

		api.GET("/dispute", deps.DisputeHandler.ListProviders)
		modelRoutes.POST("/dispute/analyze", deps.DisputeHandler.Analyze)
	}

	return r
}
