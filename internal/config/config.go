package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	RabbitMQ    RabbitMQConfig
	API         APIConfig
	Log         LogConfig
}

// HTTPConfig holds HTTP listener settings
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection settings. The Memory fields only
// apply when Enabled is false.
type DatabaseConfig struct {
	Enabled  bool
	URL      string
	MaxConns int

	MemorySeedUsers     string
	MemoryAutoCustomers bool
}

// RabbitMQConfig holds settings for the admin audit event exchange.
// An empty URL disables publishing.
type RabbitMQConfig struct {
	URL           string
	AdminExchange string
}

// APIConfig holds response contract settings
type APIConfig struct {
	Timezone          string
	LegacyStatusCodes bool
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "fleet-admin-api"),
		HTTP: HTTPConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", true),
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DATABASE_MAX_CONNS", 10),

			MemorySeedUsers:     getEnv("MEMORY_SEED_USERS", ""),
			MemoryAutoCustomers: getEnvAsBool("MEMORY_AUTO_CUSTOMERS", true),
		},
		RabbitMQ: RabbitMQConfig{
			URL:           getEnv("RABBITMQ_URL", ""),
			AdminExchange: getEnv("RABBITMQ_ADMIN_EXCHANGE", "fleet-admin.events.exchange"),
		},
		API: APIConfig{
			Timezone:          getEnv("APP_TIMEZONE", "Asia/Kolkata"),
			LegacyStatusCodes: getEnvAsBool("API_LEGACY_STATUS_CODES", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required fields
	if cfg.Database.Enabled && cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set in environment variables (set DB_ENABLED=false to use the in-memory store)")
	}
	if cfg.Database.MaxConns <= 0 {
		return nil, fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", cfg.Database.MaxConns)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsBool(key string, defaultValue bool) bool {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
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
