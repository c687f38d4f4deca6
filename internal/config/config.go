package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Alerts   AlertThresholds
	Orders   OrderConfig
	Payments PaymentsConfig
	Notifier NotifierConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `envconfig:"APP_HOST" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds Postgres connection and migration settings.
type DatabaseConfig struct {
	URL           string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"./migrations"`
}

// RedisConfig holds the notification retry queue settings.
type RedisConfig struct {
	Addr          string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password      string        `envconfig:"REDIS_PASSWORD" default:""`
	DB            int           `envconfig:"REDIS_DB" default:"0"`
	RetryInterval time.Duration `envconfig:"NOTIFY_RETRY_INTERVAL" default:"30s"`
	MaxAttempts   int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"5"`
}

// AlertThresholds is the threshold table the alert engine evaluates after
// every stock mutation. Passed in at construction, never read from the
// environment by the engine itself.
type AlertThresholds struct {
	LowWatermark  int `envconfig:"ALERT_LOW_WATERMARK" default:"5"`
	HighWatermark int `envconfig:"ALERT_HIGH_WATERMARK" default:"100"`
}

// OrderConfig holds order numbering settings.
type OrderConfig struct {
	NumberPrefix      string `envconfig:"ORDER_NUMBER_PREFIX" default:"SNK"`
	NumberMaxAttempts int    `envconfig:"ORDER_NUMBER_MAX_ATTEMPTS" default:"5"`
}

// PaymentsConfig holds the external payment-verification endpoint settings.
type PaymentsConfig struct {
	BaseURL string        `envconfig:"PAYMENTS_BASE_URL" default:"http://localhost:9090"`
	Timeout time.Duration `envconfig:"PAYMENTS_TIMEOUT" default:"5s"`
}

// NotifierConfig holds the order-confirmation notification endpoint settings.
type NotifierConfig struct {
	BaseURL string        `envconfig:"NOTIFIER_BASE_URL" default:"http://localhost:9091"`
	Timeout time.Duration `envconfig:"NOTIFIER_TIMEOUT" default:"5s"`
}

// AuthConfig holds staff JWT settings.
type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"JWT_TOKEN_TTL" default:"8h"`
}

// Load reads configuration from the environment, preferring an .env file when
// one exists without overriding already-set variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if cfg.Alerts.LowWatermark < 0 || cfg.Alerts.HighWatermark <= cfg.Alerts.LowWatermark {
		return nil, fmt.Errorf("invalid alert thresholds: low=%d high=%d", cfg.Alerts.LowWatermark, cfg.Alerts.HighWatermark)
	}

	return &cfg, nil
}
