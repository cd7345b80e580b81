package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Publish  PublishConfig
	Catalog  CatalogConfig
	Payment  PaymentConfig
	Stripe   StripeConfig
	Square   SquareConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	SiteURL     string // public storefront URL, used for payment redirects
}

type DatabaseConfig struct {
	Host        string // empty => catalog store not configured (demo mode)
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint      string // localhost:9000
	AccessKey     string
	SecretKey     string
	Bucket        string // products
	UseSSL        bool
	PublicBaseURL string // overrides the scheme://endpoint part of public URLs (CDN, Supabase, ...)
}

// =====================================================
// PUBLISH WORKFLOW CONFIGURATION
// =====================================================

type PublishConfig struct {
	Namespace          string        // logical bucket for product images
	StepTimeout        time.Duration // bound for each network step
	MaxImageBytes      int64
	RequirePaymentLink bool
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

// =====================================================
// PAYMENT CONFIGURATION
// =====================================================

type PaymentConfig struct {
	Provider string // stripe, square, mock
}

type StripeConfig struct {
	SecretKey string
	APIURL    string
	Currency  string
}

type SquareConfig struct {
	AccessToken string
	LocationID  string
	APIURL      string
	APIVersion  string
	Currency    string
}

type AdminConfig struct {
	JWTSecret string // empty => admin routes are open
	TokenTTL  time.Duration
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SiteURL:     strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", ""),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "storefront"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "products"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: strings.TrimRight(getEnv("MINIO_PUBLIC_BASE_URL", ""), "/"),
		},
		Publish: PublishConfig{
			Namespace:          getEnv("PUBLISH_NAMESPACE", "products"),
			StepTimeout:        getEnvDuration("PUBLISH_STEP_TIMEOUT", 15*time.Second),
			MaxImageBytes:      int64(getEnvInt("PUBLISH_MAX_IMAGE_BYTES", 5*1024*1024)),
			RequirePaymentLink: getEnvBool("PUBLISH_REQUIRE_PAYMENT_LINK", false),
		},
		Catalog: CatalogConfig{
			CacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 60*time.Second),
		},
		Payment: PaymentConfig{
			Provider: strings.ToLower(getEnv("PAYMENT_PROVIDER", "stripe")),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			APIURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),
			Currency:  getEnv("STRIPE_CURRENCY", "usd"),
		},
		Square: SquareConfig{
			AccessToken: getEnv("SQUARE_ACCESS_TOKEN", ""),
			LocationID:  getEnv("SQUARE_LOCATION_ID", ""),
			APIURL:      getEnv("SQUARE_API_URL", "https://connect.squareup.com"),
			APIVersion:  getEnv("SQUARE_API_VERSION", "2024-01-18"),
			Currency:    getEnv("SQUARE_CURRENCY", "USD"),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Payment.Provider {
	case "stripe", "square", "mock":
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be one of stripe, square, mock (got %q)", c.Payment.Provider)
	}

	if c.Publish.StepTimeout <= 0 {
		return fmt.Errorf("PUBLISH_STEP_TIMEOUT must be positive")
	}
	if c.Publish.MaxImageBytes <= 0 {
		return fmt.Errorf("PUBLISH_MAX_IMAGE_BYTES must be positive")
	}
	if c.Publish.Namespace == "" {
		return fmt.Errorf("PUBLISH_NAMESPACE must not be empty")
	}

	// Production environment phải có admin secret
	if c.App.Environment == "production" {
		if c.Admin.JWTSecret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET must be set in production")
		}
		if c.Payment.Provider == "mock" {
			return fmt.Errorf("PAYMENT_PROVIDER=mock is not allowed in production")
		}
		if c.Database.Host != "" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// StorageConfigured: đủ credentials để upload ảnh
func (c *Config) StorageConfigured() bool {
	return c.MinIO.Endpoint != "" && c.MinIO.AccessKey != "" && c.MinIO.SecretKey != ""
}

// CatalogConfigured: có database để ghi catalog entry
func (c *Config) CatalogConfigured() bool {
	return c.Database.Host != ""
}

func (c *Config) RedisConfigured() bool {
	return c.Redis.Host != ""
}

// PaymentConfigured reports whether the selected provider has its secrets.
func (c *Config) PaymentConfigured() bool {
	switch c.Payment.Provider {
	case "stripe":
		return c.Stripe.SecretKey != ""
	case "square":
		return c.Square.AccessToken != "" && c.Square.LocationID != ""
	case "mock":
		return true
	}
	return false
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
