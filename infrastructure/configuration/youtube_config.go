package configuration

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// ErrMissingAPIKey is returned when no YouTube Data API key is configured.
var ErrMissingAPIKey = errors.New("YOUTUBE_API_KEY is not set")

// YouTubeConfig represents YouTube API configuration
type YouTubeConfig struct {
	APIKey            string
	Endpoint          string
	RequestsPerSecond float64
}

// GetYouTubeConfig returns YouTube configuration from JSON config with environment variable fallback.
// A missing API key is an error: imports cannot run without it.
func (c *Config) GetYouTubeConfig() (*YouTubeConfig, error) {
	config := &YouTubeConfig{
		APIKey:            getConfigValue(c.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		Endpoint:          getConfigValue(c.YouTube.Endpoint, "YOUTUBE_ENDPOINT", ""),
		RequestsPerSecond: c.YouTube.RequestsPerSecond,
	}
	if v := os.Getenv("YOUTUBE_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			config.RequestsPerSecond = rps
		}
	}
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return config, nil
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Placeholders like YOUR_API_KEY count as unset
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
