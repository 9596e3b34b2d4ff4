package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Notifier
	NotifyInterval time.Duration
	DueHorizonDays int

	// Insights
	TopCategories int
	CacheTTL      time.Duration
}

func Load() *Config {
	return &Config{
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finanzas.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finanzas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		NotifyInterval: getEnvDuration("NOTIFY_INTERVAL", 15*time.Minute),
		DueHorizonDays: getEnvInt("DUE_HORIZON_DAYS", 7),

		TopCategories: getEnvInt("TOP_CATEGORIES", 5),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.NotifyInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid notify interval %v: must be at least 1 second", c.NotifyInterval))
	} else if c.NotifyInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid notify interval %v: must be at most 24 hours", c.NotifyInterval))
	}

	if c.DueHorizonDays < 0 {
		errors = append(errors, fmt.Sprintf("invalid due horizon %d: must not be negative", c.DueHorizonDays))
	} else if c.DueHorizonDays > 90 {
		errors = append(errors, fmt.Sprintf("invalid due horizon %d: must be at most 90 days", c.DueHorizonDays))
	}

	if c.TopCategories < 1 {
		errors = append(errors, fmt.Sprintf("invalid top categories count %d: must be at least 1", c.TopCategories))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
