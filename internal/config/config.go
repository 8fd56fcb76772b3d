package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"stickerpack-service/internal/validation"
)

// Config holds all application configuration, grouped by concern.
// Everything comes from environment variables with sensible defaults, so the
// same binary runs in dev, staging and production.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Assets   AssetsConfig
	Delivery DeliveryConfig
	App      AppConfig
	Limits   validation.Limits
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// AssetsConfig holds asset loader settings
type AssetsConfig struct {
	BaseDir      string // Root of the <pack>/<handle> asset tree
	CacheEnabled bool   // Wrap the dir loader in the Redis cache
}

// DeliveryConfig holds host-app bridge settings
type DeliveryConfig struct {
	Endpoint string // Bridge URL the validated pack payload is POSTed to
	Timeout  time.Duration
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Environment        string
	LogLevel           string
	RateLimitEnabled   bool
	RateLimitPerMinute int
	ProbeEnabled       bool // Enable the WebP sticker image probe
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "120s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "stickerpacks"),
			Password:        getEnv("DB_PASSWORD", "dev_password_123"),
			DBName:          getEnv("DB_NAME", "stickerpacks"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt("REDIS_DB", 0),
			CacheTTL: parseDuration("REDIS_CACHE_TTL", "1h"),
		},
		Assets: AssetsConfig{
			BaseDir:      getEnv("ASSETS_BASE_DIR", "./assets"),
			CacheEnabled: parseBool("ASSETS_CACHE_ENABLED", true),
		},
		Delivery: DeliveryConfig{
			Endpoint: getEnv("DELIVERY_ENDPOINT", "http://localhost:9090/bridge/add-pack"),
			Timeout:  parseDuration("DELIVERY_TIMEOUT", "15s"),
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			RateLimitEnabled:   parseBool("RATE_LIMIT_ENABLED", true),
			RateLimitPerMinute: parseInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
			ProbeEnabled:       parseBool("IMAGE_PROBE_ENABLED", false),
		},
		Limits: loadLimits(),
	}

	return cfg, nil
}

// loadLimits starts from the receiving app's published thresholds and lets
// individual values be overridden for testing. The store domains are not
// overridable - they are part of the external contract.
func loadLimits() validation.Limits {
	limits := validation.DefaultLimits()
	limits.CharCountMax = parseInt("LIMIT_CHAR_COUNT_MAX", limits.CharCountMax)
	limits.TrayImageFileSizeMaxKB = parseInt("LIMIT_TRAY_IMAGE_MAX_KB", limits.TrayImageFileSizeMaxKB)
	limits.StaticStickerFileLimitKB = parseInt("LIMIT_STATIC_STICKER_MAX_KB", limits.StaticStickerFileLimitKB)
	limits.AnimatedStickerFileLimitKB = parseInt("LIMIT_ANIMATED_STICKER_MAX_KB", limits.AnimatedStickerFileLimitKB)
	limits.StickerCountMin = parseInt("LIMIT_STICKER_COUNT_MIN", limits.StickerCountMin)
	limits.StickerCountMax = parseInt("LIMIT_STICKER_COUNT_MAX", limits.StickerCountMax)
	return limits
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address in host:port format.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions to parse environment variables with defaults

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, fall back to the default value
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
