// Package config reads server settings from the environment.
//
// Values may be seeded from a .env file; variables already present in the
// process environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	// LogLevel enables debug logging when set to "debug".
	LogLevel string

	// Threshold is the default mask binarization level (0-255).
	Threshold uint8

	// OverlayColor is the hex colour used to tint suppressed pixels.
	OverlayColor string

	// MaxPasses caps mask_suppress_repeatedly when the caller gives no limit.
	MaxPasses int
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Load reads the configuration. envFile may be empty; a missing file is not
// an error, a malformed one is.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	return &Config{
		LogLevel:     getEnv("MASK_MCP_LOG_LEVEL", ""),
		Threshold:    uint8(getEnvAsIntInRange("MASK_MCP_THRESHOLD", 127, 0, 255)),
		OverlayColor: getEnv("MASK_MCP_OVERLAY_COLOR", "#FF3B30"),
		MaxPasses:    getEnvAsIntInRange("MASK_MCP_MAX_PASSES", 8, 1, 1000),
	}, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Threshold:    127,
		OverlayColor: "#FF3B30",
		MaxPasses:    8,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntInRange(key string, defaultValue, min, max int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue >= min && intValue <= max {
			return intValue
		}
	}
	return defaultValue
}
