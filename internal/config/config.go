package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Report store: sqlite (default), postgres or mysql
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Upstream game service base URLs, one per game
	GestureServiceURL string
	GazeServiceURL    string
	DanceServiceURL   string
	MirrorServiceURL  string
	RepeatServiceURL  string

	// Per-adapter network timeout for session fetches
	SourceTimeout time.Duration

	// HMAC key for verifying bearer tokens minted by the auth system
	TokenSigningKey string

	// SES email notifications (disabled when FromEmail or NotifyEmail is empty)
	AWSRegion      string
	SESFromEmail   string
	SESFromName    string
	SESNotifyEmail string
	AppBaseURL     string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./theraplay.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		GestureServiceURL: getEnv("GESTURE_SERVICE_URL", "http://localhost:8081"),
		GazeServiceURL:    getEnv("GAZE_SERVICE_URL", "http://localhost:8082"),
		DanceServiceURL:   getEnv("DANCE_SERVICE_URL", "http://localhost:8083"),
		MirrorServiceURL:  getEnv("MIRROR_SERVICE_URL", "http://localhost:8084"),
		RepeatServiceURL:  getEnv("REPEAT_SERVICE_URL", "http://localhost:8085"),

		SourceTimeout: getEnvSeconds("SOURCE_TIMEOUT_SECONDS", 5*time.Second),

		TokenSigningKey: getEnv("TOKEN_SIGNING_KEY", ""),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SESFromName:    getEnv("SES_FROM_NAME", "TheraPlay"),
		SESNotifyEmail: getEnv("SES_NOTIFY_EMAIL", ""),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSeconds reads a duration in whole seconds or returns a default value
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		log.Printf("Warning: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
