// Package config loads runtime configuration from environment variables,
// following the flat typed-struct-plus-getenv pattern the teacher service
// used for its own Config.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	Metrics  MetricsConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // if set, takes precedence over the discrete fields above
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka configuration.
type KafkaConfig struct {
	Brokers       []string
	TopicBookings string
	TopicPayments string
	TopicReceipts string
	GroupID       string
}

// TracingConfig controls the OTel tracer the teacher's pkg/tracing already
// expected to receive but that the teacher never actually defined.
type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	Endpoint     string
	SamplerRatio float64
}

// MetricsConfig controls the Prometheus HTTP exposition endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
	Port    string
}

// AppConfig holds the core's own tunables (spec.md §6 "Configuration").
type AppConfig struct {
	HoldTTL                   time.Duration
	SimulatorPeriod           time.Duration
	ReaperPeriod              time.Duration
	PriceDriftTolerance       float64
	PaymentSuccessProbability float64
	MaxPassengersPerBooking   int
	PNRGenerationMaxRetries   int
	CacheTTL                  time.Duration
	SeatCacheTTL              time.Duration
	FlightLockTTL             time.Duration
	RetryMaxAttempts          int
	RetryBaseDelay            time.Duration
	RetryFactor               float64
}

// Load loads configuration from environment variables, applying the same
// defaults spec.md §6 names.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "flightcore"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			URL:      getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			TopicBookings: getEnv("KAFKA_TOPIC_BOOKINGS", "booking-lifecycle"),
			TopicPayments: getEnv("KAFKA_TOPIC_PAYMENTS", "payment-events"),
			TopicReceipts: getEnv("KAFKA_TOPIC_RECEIPTS", "receipt-jobs"),
			GroupID:       getEnv("KAFKA_GROUP_ID", "flightcore"),
		},
		Tracing: TracingConfig{
			Enabled:      getBoolEnv("TRACING_ENABLED", false),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "flightcore"),
			Environment:  getEnv("TRACING_ENVIRONMENT", "development"),
			Endpoint:     getEnv("TRACING_OTLP_ENDPOINT", "http://localhost:4318"),
			SamplerRatio: getFloatEnv("TRACING_SAMPLER_RATIO", 0.1),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
			Port:    getEnv("METRICS_PORT", "9090"),
		},
		App: AppConfig{
			HoldTTL:                   getSecondsEnv("HOLD_TTL_SECONDS", 900),
			SimulatorPeriod:           getSecondsEnv("SIMULATOR_PERIOD_SECONDS", 300),
			ReaperPeriod:              getSecondsEnv("REAPER_PERIOD_SECONDS", 60),
			PriceDriftTolerance:       getFloatEnv("PRICE_DRIFT_TOLERANCE", 0.01),
			PaymentSuccessProbability: getFloatEnv("PAYMENT_SUCCESS_PROBABILITY", 1.0),
			MaxPassengersPerBooking:   getIntEnv("MAX_PASSENGERS_PER_BOOKING", 9),
			PNRGenerationMaxRetries:   getIntEnv("PNR_GENERATION_MAX_RETRIES", 8),
			CacheTTL:                  getDurationEnv("CACHE_TTL", time.Minute),
			SeatCacheTTL:              getDurationEnv("SEAT_CACHE_TTL", 30*time.Second),
			FlightLockTTL:             getDurationEnv("FLIGHT_LOCK_TTL", 5*time.Second),
			RetryMaxAttempts:          getIntEnv("RETRY_MAX_ATTEMPTS", 5),
			RetryBaseDelay:            getDurationEnv("RETRY_BASE_DELAY", 50*time.Millisecond),
			RetryFactor:               getFloatEnv("RETRY_FACTOR", 2.0),
		},
	}
}

// getSecondsEnv reads an integer-seconds env var and returns it as a
// Duration, matching the spec's *_seconds-named configuration options.
func getSecondsEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, defaultSeconds)) * time.Second
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable with a default value.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable with a default value.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a default value.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
