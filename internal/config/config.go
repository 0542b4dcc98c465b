package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DataBackend  string // "sqlite", "memory" or "" (unconfigured)
	SQLiteDBPath string

	// AMQP (optional; absence disables async insight refresh)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Redis (optional; absence falls back to in-process caching)
	RedisURL string

	// Identity provider
	FirebaseAPIKey  string
	FirebaseBaseURL string

	// Text-generation provider
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Exchange rates
	RatesURL      string
	RatesCacheTTL time.Duration

	// Insight worker
	InsightBatchSize int
	InsightInterval  time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pocketlens.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pocketlens"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		RedisURL: getEnv("REDIS_URL", ""),

		FirebaseAPIKey:  getEnv("FIREBASE_API_KEY", ""),
		FirebaseBaseURL: getEnv("FIREBASE_AUTH_URL", "https://identitytoolkit.googleapis.com/v1"),

		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMBaseURL: getEnv("LLM_BASE_URL", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),

		RatesURL:      getEnv("RATES_URL", "https://api.exchangerate-api.com/v4/latest/USD"),
		RatesCacheTTL: getEnvDuration("RATES_CACHE_TTL", time.Hour),

		InsightBatchSize: getEnvInt("INSIGHT_BATCH_SIZE", 10),
		InsightInterval:  getEnvDuration("INSIGHT_INTERVAL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "memory", "":
		// memory needs nothing; empty means the store is unconfigured and
		// the API degrades per the storage contract
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be 'sqlite', 'memory' or empty", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RatesURL == "" {
		problems = append(problems, "rates URL cannot be empty")
	}
	if c.RatesCacheTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid rates cache TTL %v: must be at least 1 minute", c.RatesCacheTTL))
	}

	if c.LLMModel == "" {
		problems = append(problems, "LLM model id cannot be empty")
	}

	if c.InsightBatchSize < 1 || c.InsightBatchSize > 1000 {
		problems = append(problems, fmt.Sprintf("invalid insight batch size %d: must be between 1 and 1000", c.InsightBatchSize))
	}
	if c.InsightInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid insight interval %v: must be at least 1 second", c.InsightInterval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// StoreConfigured reports whether a persistence backend has been selected.
func (c *Config) StoreConfigured() bool {
	return c.DataBackend != ""
}

// AuthConfigured reports whether the identity provider can be reached.
func (c *Config) AuthConfigured() bool {
	return c.FirebaseAPIKey != ""
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
