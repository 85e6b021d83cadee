package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BillChill/billchill-backend/config"
	_ "github.com/BillChill/billchill-backend/docs"
	"github.com/BillChill/billchill-backend/handlers"
	"github.com/BillChill/billchill-backend/internal/storage"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/llm"
	"github.com/BillChill/billchill-backend/router"
	"github.com/BillChill/billchill-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title BillChill API
// @version 1.0
// @description Hospital price search and medical bill dispute assistant.
// @BasePath /
func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmTimeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	openAI := llm.NewClient(llm.Config{
		Name:               "openai",
		BaseURL:            cfg.LLM.OpenAIBaseURL,
		APIKey:             cfg.LLM.OpenAIAPIKey,
		Timeout:            llmTimeout,
		ErrorBodyMaxLength: cfg.LLM.ErrorBodyMaxLength,
	})
	openRouter := llm.NewClient(llm.Config{
		Name:    "openrouter",
		BaseURL: cfg.LLM.OpenRouterBaseURL,
		APIKey:  cfg.LLM.OpenRouterAPIKey,
		Timeout: llmTimeout,
		Headers: map[string]string{
			"HTTP-Referer": cfg.LLM.OpenRouterReferer,
			"X-Title":      "Nearby Hospitals Price Finder",
		},
		ErrorBodyMaxLength: cfg.LLM.ErrorBodyMaxLength,
	})
	if !openAI.HasAPIKey() {
		log.Warn("OPENAI_API_KEY is not set; bill analysis will fail")
	}
	if !openRouter.HasAPIKey() {
		log.Warn("OPENROUTER_API_KEY is not set; hospital search will fail")
	}

	// Hospital search
	geocoder, err := services.NewGeocodingService(cfg.Geocoding)
	if err != nil {
		log.Fatalf("Failed to initialize geocoder: %v", err)
	}
	urlChecker := services.NewHTTPURLChecker(time.Duration(cfg.Hospitals.URLCheckTimeoutSeconds) * time.Second)
	normalizer := services.NewHospitalNormalizer(geocoder, urlChecker)
	hospitalService := services.NewHospitalService(openRouter, cfg.LLM.OpenRouterModel, geocoder, normalizer)

	// Dispute flow
	providers, err := services.LoadProviderRegistry(cfg.Dispute.PolicyDocsDir, cfg.Dispute.ProvidersFile)
	if err != nil {
		log.Fatalf("Failed to load providers: %v", err)
	}
	fileStorage, err := newFileStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	disputeService := services.NewDisputeService(openAI, cfg.LLM.OpenAIModel)

	// Redis is optional and only backs rate limiting
	var redisClient *redis.Client
	var rateLimiter services.RateLimiterInterface
	if cfg.RateLimitEnabled() {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.UseTLS {
			redisOptions.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
		redisClient = redis.NewClient(redisOptions)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnw("Redis not reachable at startup; rate limiting fails open until it is", "error", err)
		}
		cancel()
		rateLimiter = services.NewRateLimitService(redisClient)
	}

	healthService := services.NewHealthService(redisClient, map[string]services.KeyChecker{
		"openai":     openAI,
		"openrouter": openRouter,
	}, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		HealthHandler:   handlers.NewHealthHandler(healthService),
		HospitalHandler: handlers.NewHospitalHandler(hospitalService),
		DisputeHandler:  handlers.NewDisputeHandler(disputeService, providers, fileStorage, cfg.Dispute),
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
		os.Exit(1)
	}
}

func newFileStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	if cfg.Storage.Backend == config.StorageBackendS3 {
		s3Storage, err := storage.NewS3FileStorage(ctx, storage.S3Options{
			Bucket:          cfg.Storage.S3Bucket,
			Region:          cfg.Storage.S3Region,
			Endpoint:        cfg.Storage.S3Endpoint,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretAccessKey,
			Prefix:          cfg.Storage.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s3Storage, nil
	}

	localStorage, err := storage.NewLocalFileStorage(cfg.Dispute.UploadDir)
	if err != nil {
		return nil, err
	}
	return localStorage, nil
}
