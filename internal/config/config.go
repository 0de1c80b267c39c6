package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	PlatformBaseURL   string
	PlatformAPIToken  string
	PlatformTimeout   time.Duration
	TestPhoneNumberID string

	CallCacheTTL       time.Duration
	CacheSweepInterval time.Duration

	// DisplayLocation is the zone used for human-readable timestamps. Day
	// bucketing in the series is always UTC.
	DisplayLocation *time.Location
	PromptCatalog   string

	// AdminToken guards /internal/admin; empty disables those routes.
	AdminToken string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PlatformBaseURL:   strings.TrimRight(getEnv("PLATFORM_BASE_URL", "https://api.vapi.ai"), "/"),
		PlatformAPIToken:  getEnv("PLATFORM_API_TOKEN", ""),
		TestPhoneNumberID: getEnv("TEST_PHONE_NUMBER_ID", ""),
		PromptCatalog:     getEnv("PROMPT_CATALOG", ""),
		AdminToken:        getEnv("ADMIN_TOKEN", ""),
	}

	var err error
	if config.PlatformTimeout, err = getDuration("PLATFORM_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if config.CallCacheTTL, err = getDuration("CALL_CACHE_TTL", "15s"); err != nil {
		return nil, err
	}
	if config.CacheSweepInterval, err = getDuration("CACHE_SWEEP_INTERVAL", "60s"); err != nil {
		return nil, err
	}
	if config.CacheSweepInterval <= 0 {
		return nil, fmt.Errorf("invalid CACHE_SWEEP_INTERVAL: must be positive")
	}

	tz := getEnv("DISPLAY_TIMEZONE", "UTC")
	config.DisplayLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
