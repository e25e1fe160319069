package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	// HTTP gateway. Mint is only served when AdminKey is set.
	APIAddr  string
	APIKey   string
	AdminKey string
	DevMode  bool

	LogLevel string

	// Chain
	ChainID      string
	StoreBackend string
	GenesisPath  string

	// Redis settings
	RedisAddr   string
	RedisDB     int
	RedisPrefix string

	// ClickHouse settings. An empty address disables swap history.
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Execute route limiter, requests per second. Zero disables it.
	ExecuteRateLimit float64
	ExecuteRateBurst int
}

func Load() *Config {
	return &Config{
		// HTTP
		APIAddr:  getEnv("API_ADDR", ":8080"),
		APIKey:   getEnv("API_KEY", ""),
		AdminKey: getEnv("ADMIN_KEY", ""),
		DevMode:  getBoolEnv("DEV_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Chain
		ChainID:      getEnv("CHAIN_ID", "swap-local-1"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		GenesisPath:  getEnv("GENESIS_PATH", ""),

		// Redis
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getIntEnv("REDIS_DB", 0),
		RedisPrefix: getEnv("REDIS_PREFIX", "swaprouter:"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "swaps"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Rate limiting
		ExecuteRateLimit: getFloatEnv("EXECUTE_RATE_LIMIT", 20),
		ExecuteRateBurst: getIntEnv("EXECUTE_RATE_BURST", 40),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.APIAddr == "" {
		errs = append(errs, errors.New("API_ADDR is required"))
	}
	if c.ChainID == "" {
		errs = append(errs, errors.New("CHAIN_ID is required"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when STORE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.StoreBackend))
	}

	if c.RedisDB < 0 {
		errs = append(errs, errors.New("REDIS_DB must not be negative"))
	}
	if c.ClickHouseAddr != "" && c.ClickHouseDatabase == "" {
		errs = append(errs, errors.New("CLICKHOUSE_DATABASE is required when CLICKHOUSE_ADDR is set"))
	}
	if c.ExecuteRateLimit < 0 {
		errs = append(errs, errors.New("EXECUTE_RATE_LIMIT must not be negative"))
	}
	if c.ExecuteRateLimit > 0 && c.ExecuteRateBurst < 1 {
		errs = append(errs, errors.New("EXECUTE_RATE_BURST must be at least 1"))
	}
	if c.AdminKey != "" && c.AdminKey == c.APIKey {
		errs = append(errs, errors.New("ADMIN_KEY must differ from API_KEY"))
	}
	if !c.DevMode && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required unless DEV_MODE=true"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
