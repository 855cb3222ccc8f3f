// ABOUTME: Configuration loader for the postdeck client
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://127.0.0.1:8000/api"

type Config struct {
	// API
	APIURL         string // base URL of the posts backend
	RequestTimeout int    // seconds, per-request timeout (default 30)

	// Session
	ProfileTTL int // seconds, resolved-profile cache lifetime (default 60)

	// Logging
	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // text, json (default: text)
}

func Load() (*Config, error) {
	// A local .env is a convenience for development; absence is fine
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("POSTDECK_API_URL", defaultAPIURL)),
		RequestTimeout: getEnvInt("POSTDECK_TIMEOUT", 30),
		ProfileTTL:     getEnvInt("POSTDECK_PROFILE_TTL", 60),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("POSTDECK_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}
	if cfg.ProfileTTL < 0 {
		return nil, fmt.Errorf("POSTDECK_PROFILE_TTL must not be negative, got %d", cfg.ProfileTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme. Local
// backends are the common case, so plain http is assumed.
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return strings.TrimRight(url, "/")
}
