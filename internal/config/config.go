package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zoneinfo for BUSINESS_TIMEZONE
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Service  ServiceConfig
	Store    StoreConfig
	Database DatabaseConfig
	DynamoDB DynamoDBConfig
	Kafka    KafkaConfig
	Calendar CalendarConfig
	API      APIConfig
	GRPC     GRPCConfig
	HTTP     HTTPConfig
	Logging  LoggingConfig
}

// ServiceConfig holds service-level configuration
type ServiceConfig struct {
	Name        string
	Environment string
}

// StoreConfig selects the order store backend
type StoreConfig struct {
	Driver string // "postgres", "dynamodb" or "memory"
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	URL         string
	AutoMigrate bool
}

// DynamoDBConfig holds DynamoDB table configuration
type DynamoDBConfig struct {
	Region          string
	Endpoint        string // optional, e.g. http://localhost:8000
	AccessKeyID     string
	SecretAccessKey string
	OrdersTable     string
}

// KafkaConfig holds Kafka broker configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// CalendarConfig holds business-day calendar configuration
type CalendarConfig struct {
	HolidaysFile string // empty means built-in holidays
	Timezone     string
	Location     *time.Location
}

// APIConfig holds the public orders API configuration
type APIConfig struct {
	Port           int
	RequestTimeout time.Duration
}

// GRPCConfig holds gRPC server configuration
type GRPCConfig struct {
	Port int
}

// HTTPConfig holds the health and metrics server configuration
type HTTPConfig struct {
	Port int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "order-service"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Database:    getEnv("DB_NAME", "orders"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		DynamoDB: DynamoDBConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        os.Getenv("DYNAMODB_ENDPOINT"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "local"),
			OrdersTable:     getEnv("ORDERS_TABLE", "orders"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_ORDER_TOPIC", "order.events"),
		},
		Calendar: CalendarConfig{
			HolidaysFile: os.Getenv("HOLIDAYS_FILE"),
			Timezone:     getEnv("BUSINESS_TIMEZONE", "UTC"),
		},
		API: APIConfig{
			Port:           getEnvInt("API_PORT", 8080),
			RequestTimeout: getEnvDuration("API_REQUEST_TIMEOUT", 10*time.Second),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 8082),
		},
		HTTP: HTTPConfig{
			Port: getEnvInt("HTTP_PORT", 9092),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverDynamoDB, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.Calendar.Timezone, err)
	}
	cfg.Calendar.Location = loc

	// Build database URL
	cfg.Database.URL = getEnv("DATABASE_URL", fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	))

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvSlice gets a comma-separated environment variable as a slice
func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
