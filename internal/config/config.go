// Package config handles configuration loading for the contacts service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the contacts service.
type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateLimitWindow time.Duration
	CORSOrigins     []string

	// BaseURL is the public address of this service, used to build the
	// confirmation links sent by email.
	BaseURL string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8000"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     databaseURL(),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimit:       parseInt(getEnv("RATE_LIMIT", "2"), 2),
		RateLimitWindow: parseDuration(getEnv("RATE_LIMIT_WINDOW", "5s"), 5*time.Second),
		CORSOrigins:     splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8000"),
	}
}

// databaseURL returns DATABASE_URL when set, otherwise a DSN assembled
// from the individual DB_* variables.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "contacts")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
