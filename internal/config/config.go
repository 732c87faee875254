package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	APIPort int

	// Security
	SyncSecret string
	AppEnv     string

	// Logging
	LogLevel string

	// Sync engine
	LookbackDays int
	SyncWorkers  int
	FetchLimit   int
	PassTimeout  time.Duration
	LockTTL      time.Duration
	LockKey      string
	// SyncInterval enables the in-process scheduler when > 0; the default
	// deployment relies on an external cron hitting the trigger endpoint.
	SyncInterval time.Duration

	// Provider API throttling
	ProviderRateLimit float64
	ProviderRateBurst int

	// Mailbox API access. Base URLs default to the public endpoints; tokens
	// feed the static token source (token refresh services inject their own).
	GoogleAPIBaseURL    string
	GoogleAPIToken      string
	MicrosoftAPIBaseURL string
	MicrosoftAPIToken   string

	// HTTP rate limiting
	RateLimitRequests float64
	RateLimitBurst    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	var err error
	if cfg.APIPort, err = intEnv("API_PORT", 8080); err != nil {
		return nil, err
	}

	cfg.SyncSecret = os.Getenv("SYNC_SECRET")

	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.LookbackDays, err = intEnv("SYNC_LOOKBACK_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.SyncWorkers, err = intEnv("SYNC_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.FetchLimit, err = intEnv("SYNC_FETCH_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.PassTimeout, err = durationEnv("SYNC_PASS_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = durationEnv("SYNC_LOCK_TTL", 120*time.Second); err != nil {
		return nil, err
	}
	cfg.LockKey = os.Getenv("SYNC_LOCK_KEY")
	if cfg.LockKey == "" {
		cfg.LockKey = "reply-sync"
	}
	if cfg.SyncInterval, err = durationEnv("SYNC_INTERVAL", 0); err != nil {
		return nil, err
	}

	if cfg.ProviderRateLimit, err = floatEnv("PROVIDER_RATE_LIMIT", 5.0); err != nil {
		return nil, err
	}
	if cfg.ProviderRateBurst, err = intEnv("PROVIDER_RATE_BURST", 10); err != nil {
		return nil, err
	}

	cfg.GoogleAPIBaseURL = os.Getenv("GOOGLE_API_BASE_URL")
	cfg.GoogleAPIToken = os.Getenv("GOOGLE_API_TOKEN")
	cfg.MicrosoftAPIBaseURL = os.Getenv("MICROSOFT_API_BASE_URL")
	cfg.MicrosoftAPIToken = os.Getenv("MICROSOFT_API_TOKEN")

	if cfg.RateLimitRequests, err = floatEnv("RATE_LIMIT_REQUESTS", 10.0); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.LookbackDays <= 0 {
		return fmt.Errorf("LookbackDays must be positive")
	}
	if c.SyncWorkers <= 0 {
		return fmt.Errorf("SyncWorkers must be positive")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("FetchLimit must be positive")
	}
	if c.LockTTL <= c.PassTimeout {
		return fmt.Errorf("LockTTL must exceed PassTimeout so a live pass cannot lose its lock")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.SyncSecret == "" {
		return fmt.Errorf("SYNC_SECRET is required in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("sync_secret_set", c.SyncSecret != ""),
		slog.Int("lookback_days", c.LookbackDays),
		slog.Int("sync_workers", c.SyncWorkers),
		slog.Int("fetch_limit", c.FetchLimit),
		slog.Duration("pass_timeout", c.PassTimeout),
		slog.Duration("lock_ttl", c.LockTTL),
		slog.String("lock_key", c.LockKey),
		slog.Duration("sync_interval", c.SyncInterval),
		slog.Float64("provider_rate_limit", c.ProviderRateLimit),
		slog.Int("provider_rate_burst", c.ProviderRateBurst),
		slog.Float64("rate_limit_rps", c.RateLimitRequests),
		slog.Int("rate_limit_burst", c.RateLimitBurst),
	)
}

// intEnv parses an integer environment variable with a default
func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

// floatEnv parses a float environment variable with a default
func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

// durationEnv parses a duration environment variable with a default
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return v, nil
}
