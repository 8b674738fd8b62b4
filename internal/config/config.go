package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Stores
	MongoURI      string
	MongoDatabase string
	RedisURL      string

	// Analytics
	CacheTTL     time.Duration
	QueryTimeout time.Duration
	FanoutLimit  int

	// Cache warming pool
	WorkerCount int
	QueueSize   int

	// Upstream game API proxy
	ProxyURL  string
	ProxyKeys []string

	// Rate limiting
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load loads configuration from environment variables, after an optional .env file.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		MongoDatabase: getEnv("MONGODB_DATABASE", "clashstats"),

		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		QueryTimeout: getEnvDuration("QUERY_TIMEOUT", 15*time.Second),
		FanoutLimit:  getEnvInt("FANOUT_LIMIT", 8),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		QueueSize:   getEnvInt("QUEUE_SIZE", 1000),

		ProxyURL:  strings.TrimRight(getEnv("PROXY_URL", ""), "/"),
		ProxyKeys: splitList(getEnv("PROXY_KEYS", "")),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 100),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 200),
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))

	// Critical configuration - fail if missing
	var err error
	if cfg.MongoURI, err = getEnvRequired("MONGODB_URI"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	if cfg.FanoutLimit < 1 {
		return nil, fmt.Errorf("FANOUT_LIMIT must be positive, got %d", cfg.FanoutLimit)
	}
	if cfg.WorkerCount < 1 || cfg.QueueSize < 1 {
		return nil, fmt.Errorf("WORKER_COUNT and QUEUE_SIZE must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development logging
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
