package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Peer     PeerConfig
	Client   ClientConfig
	Sweep    SweepConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the config as a libpq-style connection string, accepted by
// both lib/pq and pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PeerConfig points the contract service at the proposal service.
type PeerConfig struct {
	ProposalServiceURL string
}

// ClientConfig carries the resilience knobs for outbound HTTP calls.
type ClientConfig struct {
	MaxRetryAttempts        int
	BaseRetryDelay          time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerCooldown  time.Duration
	Timeout                 time.Duration
	RequestsPerSecond       float64
}

// SweepConfig controls the nightly stale-review sweep in the proposal service.
type SweepConfig struct {
	Enabled      bool
	Schedule     string
	MaxReviewAge time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "insurance"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Peer: PeerConfig{
			ProposalServiceURL: getEnv("PROPOSAL_SERVICE_URL", "http://localhost:8081"),
		},
		Client: ClientConfig{
			MaxRetryAttempts:        getEnvAsInt("HTTP_MAX_RETRY_ATTEMPTS", 3),
			BaseRetryDelay:          getEnvAsDuration("HTTP_BASE_RETRY_DELAY", time.Second),
			CircuitBreakerThreshold: getEnvAsInt("HTTP_CB_THRESHOLD", 5),
			CircuitBreakerCooldown:  getEnvAsDuration("HTTP_CB_COOLDOWN", 30*time.Second),
			Timeout:                 getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
			RequestsPerSecond:       getEnvAsFloat("HTTP_REQUESTS_PER_SECOND", 0),
		},
		Sweep: SweepConfig{
			Enabled:      getEnvAsBool("REVIEW_SWEEP_ENABLED", false),
			Schedule:     getEnv("REVIEW_SWEEP_SCHEDULE", "0 0 0 * * *"),
			MaxReviewAge: getEnvAsDuration("REVIEW_SWEEP_MAX_AGE", 72*time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Client.MaxRetryAttempts < 0 {
		return fmt.Errorf("HTTP_MAX_RETRY_ATTEMPTS must not be negative")
	}

	return nil
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %f", key, defaultValue)
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
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
