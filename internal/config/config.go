package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Session settings
	SessionTTL time.Duration

	// Advisory generator settings
	AdvisoryAPIKey  string
	AdvisoryBaseURL string
	AdvisoryModel   string
	AdvisoryTimeout time.Duration

	// History export settings
	HeadlessMode  bool
	BrowserPath   string
	ExportTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "./data/adv_diary.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		AdvisoryAPIKey:  getEnv("ADVISORY_API_KEY", ""),
		AdvisoryBaseURL: getEnv("ADVISORY_BASE_URL", "https://generativelanguage.googleapis.com"),
		AdvisoryModel:   getEnv("ADVISORY_MODEL", "gemini-3-flash-preview"),
		BrowserPath:     getEnv("ROD_BROWSER_PATH", ""),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = time.Duration(sessionTTL) * time.Hour

	advisoryTimeout, err := strconv.Atoi(getEnv("ADVISORY_TIMEOUT", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISORY_TIMEOUT: %w", err)
	}
	cfg.AdvisoryTimeout = time.Duration(advisoryTimeout) * time.Second

	exportTimeout, err := strconv.Atoi(getEnv("EXPORT_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_TIMEOUT: %w", err)
	}
	cfg.ExportTimeout = time.Duration(exportTimeout) * time.Second

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
