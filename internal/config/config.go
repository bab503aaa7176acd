// Package config loads the process-wide configuration. Everything is read
// once at startup from the environment and handed to constructors; nothing is
// hot-reloaded mid-process.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Redis contains fast counter store configuration
	Redis RedisConfig
	// LoginLimit contains the per-IP login attempt policy
	LoginLimit LoginLimitConfig
	// Retention contains the attempt ledger retention policy
	Retention RetentionConfig

	// RateLimit configures the global per-IP request throttle
	RateLimit struct {
		Requests int // Number of requests allowed per window
		Window   int // Time window in seconds
		Burst    int // Maximum burst size
	}
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign bearer tokens
	JWTSecret string
	// JWTExpiration is the bearer token expiration time in hours
	JWTExpiration int
	// RegistrationOpen determines if new user registration is allowed
	RegistrationOpen bool
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig contains connection settings for the fast counter store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoginLimitConfig contains the login rate limiter policy
type LoginLimitConfig struct {
	// MaxAttempts is the failed-attempt ceiling per IP within the window
	MaxAttempts int
	// LockoutMinutes is the trailing lockout window in minutes
	LockoutMinutes int
}

// RetentionConfig contains the login attempt retention policy
type RetentionConfig struct {
	// MaxAgeDays is how long attempt records are kept
	MaxAgeDays int
	// Schedule is the cron expression for the pruning job
	Schedule string
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "inkwell"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.Auth = AuthConfig{
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiration:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		RegistrationOpen: getEnvAsBool("REGISTRATION_OPEN", true),
	}
	c.Redis = RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
	c.LoginLimit = LoginLimitConfig{
		MaxAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS", 3),
		LockoutMinutes: getEnvAsInt("LOGIN_LOCKOUT_MINUTES", 30),
	}
	c.Retention = RetentionConfig{
		MaxAgeDays: getEnvAsInt("ATTEMPT_RETENTION_DAYS", 30),
		Schedule:   getEnvOrDefault("ATTEMPT_RETENTION_SCHEDULE", "0 3 * * *"),
	}

	// Load global request throttle configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	// Validate required fields
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
