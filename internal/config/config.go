// Package config loads runtime configuration from environment variables with
// sensible defaults for local development.
package config

import (
	"os"
	"strings"
	"time"
)

// Storage backend selectors.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	HTTPPort       string
	AppVersion     string
	CatalogBaseURL string

	StorageBackend string
	RedisAddr      string
	SQLitePath     string
	MigrationsPath string
	MongoURI       string
	MongoDatabase  string

	KafkaBrokers []string

	RequestTimeout         time.Duration
	ShutdownTimeout        time.Duration
	CatalogTimeout         time.Duration
	CatalogRefreshInterval time.Duration
	CartSweepInterval      time.Duration
}

// Load reads the environment. KAFKA_BROKERS empty means orders are only
// returned to the Mini App, not published.
func Load() *Config {
	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		AppVersion:     getEnv("APP_VERSION", "1.3.108"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8081/bot-app"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:     getEnv("SQLITE_PATH", "storefront.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "storefront"),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),

		RequestTimeout:         getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:        getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CatalogTimeout:         getDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogRefreshInterval: getDuration("CATALOG_REFRESH_INTERVAL", time.Minute),
		CartSweepInterval:      getDuration("CART_SWEEP_INTERVAL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
