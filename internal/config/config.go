// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Session backend names accepted by SESSION_BACKEND.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type StorageConfig struct {
	DataDir string
}

type SessionConfig struct {
	Backend   string
	TTL       time.Duration
	RedisAddr string
}

type AuthConfig struct {
	BcryptCost int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("HTTP_PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Session: SessionConfig{
			Backend:   getEnv("SESSION_BACKEND", SessionBackendMemory),
			TTL:       getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Auth: AuthConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode. It decides
// the Secure and SameSite attributes of the session cookie.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
