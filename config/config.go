// Package config loads application settings from the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// session backends understood by session.NewStore
const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

// ------------------- configuration model -------------------

// Config holds every externally supplied setting.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	SecretKey      string
	SessionBackend string
	SessionMaxAge  int
	CookieSecure   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MetricsEnabled   bool
	MetricsNamespace string
	AWSRegion        string

	AdminUsername string
	AdminPassword string

	LogDir string
}

// ------------------- loading -------------------

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "sqlite://refdata.db"),
		SecretKey:        os.Getenv("SECRET_KEY"),
		SessionBackend:   strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendCookie)),
		SessionMaxAge:    getEnvInt("SESSION_MAX_AGE", 86400*7),
		CookieSecure:     getEnvBool("COOKIE_SECURE", false),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", false),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "RefData"),
		AWSRegion:        os.Getenv("AWS_REGION"),
		AdminUsername:    os.Getenv("ADMIN_USERNAME"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		LogDir:           os.Getenv("LOG_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	switch c.SessionBackend {
	case SessionBackendCookie, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %d", c.SessionMaxAge)
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ------------------- helpers -------------------

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
