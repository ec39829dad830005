package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration of the game service.
type Config struct {
	// Server settings
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// PostgreSQL settings
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Secret field, loaded from file or env, no envconfig tag
	DBPassword string

	// Redis page cache. Empty address disables the cache.
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:""`
	RedisDB      int           `envconfig:"REDIS_DB" default:"0"`
	PageCacheTTL time.Duration `envconfig:"PAGE_CACHE_TTL" default:"5m"`
	// Secret field, no envconfig tag
	RedisPassword string

	// RabbitMQ session events. Empty URL disables publishing.
	RabbitMQURL        string `envconfig:"RABBITMQ_URL" default:""`
	SessionEventsQueue string `envconfig:"SESSION_EVENTS_QUEUE" default:"session_events"`

	// Idle-session sweep policy
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"24h"`
	SweepInterval      time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1h"`

	// JWT secret for verifying user tokens, loaded from file or env
	JWTSecret string
}

// GetDSN builds the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig reads configuration from environment variables and secrets.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var err error
	cfg.DBPassword, err = readSecret("db_password", "DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	cfg.JWTSecret, err = readSecret("jwt_secret", "JWT_SECRET")
	if err != nil {
		return nil, err
	}

	// Redis password is optional; a missing secret means no auth.
	cfg.RedisPassword, _ = readSecret("redis_password", "REDIS_PASSWORD")

	return &cfg, nil
}

// readSecret reads a secret from the standard Docker Secrets path, falling
// back to an environment variable for local development.
func readSecret(secretName, envName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	if secretBytes, err := os.ReadFile(filePath); err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret != "" {
			return secret, nil
		}
	}
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %s not found (checked %s and $%s)", secretName, filePath, envName)
}
