// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/BillChill/billchill-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	// ExtraOrigin is appended to AllowedOrigins, so a deployed front-end can be
	// allowed without restating the localhost defaults.
	ExtraOrigin string `mapstructure:"CORS_ALLOW_ORIGIN" yaml:"cors_allow_origin"`
	Version     string `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers are honoured. Empty means client headers are ignored.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// Origins returns the allowed CORS origins including ExtraOrigin.
func (s *ServerConfig) Origins() []string {
	origins := make([]string, 0, len(s.AllowedOrigins)+1)
	origins = append(origins, s.AllowedOrigins...)
	if s.ExtraOrigin != "" && !containsOrigin(origins, s.ExtraOrigin) {
		origins = append(origins, s.ExtraOrigin)
	}
	return origins
}

// LLMConfig holds credentials and endpoints for the two model providers.
// OpenAI runs the billing audit and letter drafting; OpenRouter runs the
// web-search hospital lookup.
type LLMConfig struct {
	OpenAIAPIKey       string `mapstructure:"OPENAI_API_KEY" yaml:"openai_api_key"`
	OpenAIBaseURL      string `mapstructure:"OPENAI_BASE_URL" yaml:"openai_base_url"`
	OpenAIModel        string `mapstructure:"OPENAI_MODEL" yaml:"openai_model"`
	OpenRouterAPIKey   string `mapstructure:"OPENROUTER_API_KEY" yaml:"openrouter_api_key"`
	OpenRouterBaseURL  string `mapstructure:"OPENROUTER_BASE_URL" yaml:"openrouter_base_url"`
	OpenRouterModel    string `mapstructure:"OPENROUTER_MODEL" yaml:"openrouter_model"`
	OpenRouterReferer  string `mapstructure:"OPENROUTER_REFERER" yaml:"openrouter_referer"`
	TimeoutSeconds     int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	ErrorBodyMaxLength int    `mapstructure:"ERROR_BODY_MAX_LENGTH" yaml:"error_body_max_length"`
}

// GeocodingConfig holds Nominatim settings.
type GeocodingConfig struct {
	BaseURL               string `mapstructure:"BASE_URL" yaml:"base_url"`
	ContactEmail          string `mapstructure:"CONTACT_EMAIL" yaml:"contact_email"`
	ReverseCacheSize      int    `mapstructure:"REVERSE_CACHE_SIZE" yaml:"reverse_cache_size"`
	ForwardCacheSize      int    `mapstructure:"FORWARD_CACHE_SIZE" yaml:"forward_cache_size"`
	ReverseTimeoutSeconds int    `mapstructure:"REVERSE_TIMEOUT_SECONDS" yaml:"reverse_timeout_seconds"`
	ForwardTimeoutSeconds int    `mapstructure:"FORWARD_TIMEOUT_SECONDS" yaml:"forward_timeout_seconds"`
}

// HospitalsConfig holds settings for the hospital price search.
type HospitalsConfig struct {
	URLCheckTimeoutSeconds int `mapstructure:"URL_CHECK_TIMEOUT_SECONDS" yaml:"url_check_timeout_seconds"`
}

// DisputeConfig holds settings for the bill dispute flow.
type DisputeConfig struct {
	UploadDir     string `mapstructure:"UPLOAD_DIR" yaml:"upload_dir"`
	PolicyDocsDir string `mapstructure:"POLICY_DOCS_DIR" yaml:"policy_docs_dir"`
	ProvidersFile string `mapstructure:"PROVIDERS_FILE" yaml:"providers_file"`
	MaxUploadMB   int    `mapstructure:"MAX_UPLOAD_MB" yaml:"max_upload_mb"`
	// UniqueUploadNames prefixes stored uploads with a UUID. Off by default:
	// same-named uploads then overwrite each other.
	UniqueUploadNames bool `mapstructure:"UNIQUE_UPLOAD_NAMES" yaml:"unique_upload_names"`
}

// StorageConfig selects where uploaded PDFs are persisted.
type StorageConfig struct {
	Backend           string `mapstructure:"BACKEND" yaml:"backend"`
	S3Bucket          string `mapstructure:"S3_BUCKET" yaml:"s3_bucket"`
	S3Region          string `mapstructure:"S3_REGION" yaml:"s3_region"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT" yaml:"s3_endpoint"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID" yaml:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY" yaml:"s3_secret_access_key"`
	S3Prefix          string `mapstructure:"S3_PREFIX" yaml:"s3_prefix"`
}

// RedisConfig holds Redis connection details. An empty Address disables
// rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// RateLimitConfig bounds calls to the LLM-backed endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"REQUESTS_PER_MINUTE" yaml:"requests_per_minute"`
	WindowSeconds     int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	LLM       LLMConfig       `mapstructure:"LLM" yaml:"llm"`
	Geocoding GeocodingConfig `mapstructure:"GEOCODING" yaml:"geocoding"`
	Hospitals HospitalsConfig `mapstructure:"HOSPITALS" yaml:"hospitals"`
	Dispute   DisputeConfig   `mapstructure:"DISPUTE" yaml:"dispute"`
	Storage   StorageConfig   `mapstructure:"STORAGE" yaml:"storage"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// RateLimitEnabled reports whether a Redis backend is configured.
func (c *Config) RateLimitEnabled() bool {
	return c.Redis.Address != "" && c.RateLimit.RequestsPerMinute > 0
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "5000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("SERVER.CORS_ALLOW_ORIGIN", "")
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("LLM.OPENAI_API_KEY", "")
	v.SetDefault("LLM.OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM.OPENAI_MODEL", "gpt-4.1-mini")
	v.SetDefault("LLM.OPENROUTER_API_KEY", "")
	v.SetDefault("LLM.OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("LLM.OPENROUTER_MODEL", "perplexity/sonar")
	v.SetDefault("LLM.OPENROUTER_REFERER", "http://localhost:5000")
	v.SetDefault("LLM.TIMEOUT_SECONDS", 45)
	v.SetDefault("LLM.ERROR_BODY_MAX_LENGTH", 600)
	v.SetDefault("GEOCODING.BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODING.CONTACT_EMAIL", "")
	v.SetDefault("GEOCODING.REVERSE_CACHE_SIZE", 256)
	v.SetDefault("GEOCODING.FORWARD_CACHE_SIZE", 512)
	v.SetDefault("GEOCODING.REVERSE_TIMEOUT_SECONDS", 6)
	v.SetDefault("GEOCODING.FORWARD_TIMEOUT_SECONDS", 8)
	v.SetDefault("HOSPITALS.URL_CHECK_TIMEOUT_SECONDS", 3)
	v.SetDefault("DISPUTE.UPLOAD_DIR", "dispute/uploads")
	v.SetDefault("DISPUTE.POLICY_DOCS_DIR", "dispute/policy_docs")
	v.SetDefault("DISPUTE.PROVIDERS_FILE", "")
	v.SetDefault("DISPUTE.MAX_UPLOAD_MB", 25)
	v.SetDefault("DISPUTE.UNIQUE_UPLOAD_NAMES", false)
	v.SetDefault("STORAGE.BACKEND", StorageBackendLocal)
	v.SetDefault("STORAGE.S3_BUCKET", "")
	v.SetDefault("STORAGE.S3_REGION", "auto")
	v.SetDefault("STORAGE.S3_ENDPOINT", "")
	v.SetDefault("STORAGE.S3_ACCESS_KEY_ID", "")
	v.SetDefault("STORAGE.S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("STORAGE.S3_PREFIX", "uploads")
	v.SetDefault("REDIS.ADDRESS", "")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_MINUTE", 20)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.CORS_ALLOW_ORIGIN", "CORS_ALLOW_ORIGIN"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// Model providers
		{"LLM.OPENAI_API_KEY", "OPENAI_API_KEY"},
		{"LLM.OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		{"LLM.OPENAI_MODEL", "OPENAI_MODEL"},
		{"LLM.OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
		{"LLM.OPENROUTER_BASE_URL", "OPENROUTER_BASE_URL"},
		{"LLM.OPENROUTER_MODEL", "OPENROUTER_MODEL"},
		{"LLM.OPENROUTER_REFERER", "OPENROUTER_REFERER"},
		{"LLM.TIMEOUT_SECONDS", "LLM_TIMEOUT_SECONDS"},
		// Geocoding
		{"GEOCODING.BASE_URL", "NOMINATIM_BASE_URL"},
		{"GEOCODING.CONTACT_EMAIL", "NOMINATIM_EMAIL"},
		{"GEOCODING.REVERSE_CACHE_SIZE", "GEOCODING_REVERSE_CACHE_SIZE"},
		{"GEOCODING.FORWARD_CACHE_SIZE", "GEOCODING_FORWARD_CACHE_SIZE"},
		// Hospitals
		{"HOSPITALS.URL_CHECK_TIMEOUT_SECONDS", "HOSPITALS_URL_CHECK_TIMEOUT_SECONDS"},
		// Dispute
		{"DISPUTE.UPLOAD_DIR", "UPLOAD_DIR"},
		{"DISPUTE.POLICY_DOCS_DIR", "POLICY_DOCS_DIR"},
		{"DISPUTE.PROVIDERS_FILE", "PROVIDERS_FILE"},
		{"DISPUTE.MAX_UPLOAD_MB", "MAX_UPLOAD_MB"},
		{"DISPUTE.UNIQUE_UPLOAD_NAMES", "UPLOAD_UNIQUE_NAMES"},
		// Storage
		{"STORAGE.BACKEND", "STORAGE_BACKEND"},
		{"STORAGE.S3_BUCKET", "S3_BUCKET"},
		{"STORAGE.S3_REGION", "S3_REGION"},
		{"STORAGE.S3_ENDPOINT", "S3_ENDPOINT"},
		{"STORAGE.S3_ACCESS_KEY_ID", "S3_ACCESS_KEY_ID"},
		{"STORAGE.S3_SECRET_ACCESS_KEY", "S3_SECRET_ACCESS_KEY"},
		{"STORAGE.S3_PREFIX", "S3_PREFIX"},
		// Redis
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Rate limit
		{"RATE_LIMIT.REQUESTS_PER_MINUTE", "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"allowed_origins", cfg.Server.Origins(),
		"openai_key", logger.MaskSensitiveString(cfg.LLM.OpenAIAPIKey, 3, 3),
		"openrouter_key", logger.MaskSensitiveString(cfg.LLM.OpenRouterAPIKey, 3, 3),
		"storage_backend", cfg.Storage.Backend,
		"rate_limit_enabled", cfg.RateLimitEnabled(),
	)
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if origins := cfg.Server.Origins(); !containsOrigin(origins, "*") {
		for _, origin := range origins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	for _, proxy := range cfg.Server.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("invalid trusted proxy '%s'", proxy)
		}
	}

	// Missing keys are not fatal: the affected endpoint reports it per request.
	if cfg.LLM.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; bill analysis requests will fail")
	}
	if cfg.LLM.OpenRouterAPIKey == "" {
		log.Warn("OPENROUTER_API_KEY is not set; hospital search requests will fail")
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}

	if cfg.Geocoding.ReverseCacheSize <= 0 || cfg.Geocoding.ForwardCacheSize <= 0 {
		return fmt.Errorf("geocoding cache sizes must be positive")
	}
	if cfg.Geocoding.ReverseTimeoutSeconds <= 0 || cfg.Geocoding.ForwardTimeoutSeconds <= 0 {
		return fmt.Errorf("geocoding timeouts must be positive")
	}
	if cfg.Hospitals.URLCheckTimeoutSeconds <= 0 {
		return fmt.Errorf("url check timeout must be positive")
	}

	if cfg.Dispute.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	switch cfg.Storage.Backend {
	case StorageBackendLocal:
		if cfg.Dispute.UploadDir == "" {
			return fmt.Errorf("upload directory is required for local storage")
		}
	case StorageBackendS3:
		if cfg.Storage.S3Bucket == "" {
			return fmt.Errorf("s3 bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Redis.Address != "" && cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	return nil
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}

func containsOrigin(origins []string, origin string) bool {
	for _, o := range origins {
		if o == origin {
			return true
		}
	}
	return false
}
