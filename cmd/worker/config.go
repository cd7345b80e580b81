package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"storefront-backend/internal/config"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	HealthPort    string
}

// loadConfig lấy Redis từ app config, phần còn lại từ env riêng của worker
func loadConfig(app *config.Config) (*Config, error) {
	if !app.RedisConfigured() {
		return nil, fmt.Errorf("REDIS_HOST is required for the worker")
	}

	concurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "10"))
	if err != nil || concurrency <= 0 {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY")
	}

	cfg := &Config{
		RedisAddr:     app.Redis.Host,
		RedisPassword: app.Redis.Password,
		RedisDB:       app.Redis.DB,
		Concurrency:   concurrency,
		HealthPort:    getEnv("WORKER_HEALTH_PORT", "9999"),
	}

	log.Printf("[Config] Redis: %s (db %d), concurrency: %d", cfg.RedisAddr, cfg.RedisDB, cfg.Concurrency)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
