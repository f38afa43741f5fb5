package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rezonia/ics-einvoice/internal/logger"
)

// Config holds the gateway configuration
type Config struct {
	// ICS clearance API
	APIURL           string
	StrictDecode     bool
	HTTPTimeout      time.Duration
	BatchConcurrency int

	// HTTP server
	ServerAddress      string
	ServerDebug        bool
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	config := &Config{
		APIURL:        getEnv("ICS_API_URL", ""),
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	var err error
	if config.StrictDecode, err = getBool("ICS_STRICT_DECODE", false); err != nil {
		return nil, err
	}
	if config.HTTPTimeout, err = getDuration("ICS_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.BatchConcurrency, err = getInt("ICS_BATCH_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if config.ServerDebug, err = getBool("SERVER_DEBUG", false); err != nil {
		return nil, err
	}
	if config.ServerReadTimeout, err = getDuration("SERVER_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.ServerWriteTimeout, err = getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("ICS_API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ICS_API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("ICS_HTTP_TIMEOUT must be positive")
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("ICS_BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return i, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
