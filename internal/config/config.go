package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the connection settings for the external identity provider.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// Config is the process-wide configuration. It is built once in main and
// passed by value into constructors; nothing mutates it after startup.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	// Document-store backend (optional alternative to Postgres).
	MongoURL      string
	MongoDatabase string
	StorageDriver string // "postgres" or "mongo"

	// Token codec settings.
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Which resolver backs the auth middleware: "local" or "casdoor".
	AuthMode string
	Casdoor  CasdoorConfig

	// Pagination defaults applied when the request omits them.
	DefaultPageSize int
	MaxPageSize     int

	// Per-client request ceiling. Zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Event publishing. Empty brokers means the in-process publisher.
	KafkaBrokers []string
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded when present so local development does not need exported vars.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		MongoURL:      getEnv("MONGO_URL", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "school"),
		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "school-service"),
		TokenTTL:  getDurationEnv("TOKEN_TTL", 24*time.Hour),

		AuthMode: getEnv("AUTH_MODE", "local"),
		Casdoor: CasdoorConfig{
			Endpoint:     getEnv("CASDOOR_ENDPOINT", ""),
			ClientID:     getEnv("CASDOOR_CLIENT_ID", ""),
			ClientSecret: getEnv("CASDOOR_CLIENT_SECRET", ""),
			Cert:         getEnv("CASDOOR_CERT", ""),
			Organization: getEnv("CASDOOR_ORGANIZATION", ""),
			Application:  getEnv("CASDOOR_APPLICATION", ""),
		},

		DefaultPageSize: getIntEnv("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     getIntEnv("MAX_PAGE_SIZE", 100),

		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.AuthMode != "local" && c.AuthMode != "casdoor" {
		return fmt.Errorf("AUTH_MODE must be \"local\" or \"casdoor\", got %q", c.AuthMode)
	}
	if c.AuthMode == "local" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=local")
	}
	if c.StorageDriver != "postgres" && c.StorageDriver != "mongo" {
		return fmt.Errorf("STORAGE_DRIVER must be \"postgres\" or \"mongo\", got %q", c.StorageDriver)
	}
	if c.StorageDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
	}
	if c.StorageDriver == "mongo" && c.MongoURL == "" {
		return fmt.Errorf("MONGO_URL is required when STORAGE_DRIVER=mongo")
	}
	if c.MaxPageSize <= 0 || c.MaxPageSize > 100 {
		c.MaxPageSize = 100
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = 10
	}
	return nil
}

// IsProduction reports whether the service runs with production error hygiene.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
