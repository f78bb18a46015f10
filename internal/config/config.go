package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Dataset source kinds.
const (
	SourceDir    = "dir"
	SourceHTTP   = "http"
	SourceSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DatasetSource         string
	DatasetDir            string
	DatasetBaseURL        string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	CacheTTL              time.Duration
	LoadTimeout           time.Duration
	SessionIdleTTL        time.Duration
	ResidualPolicy        string
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
	UploadURL             string
}

// LoadFromEnv loads configuration from environment variables. Malformed
// numbers and durations fall back to their defaults.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DatasetSource:         getEnv("DATASET_SOURCE", SourceDir),
		DatasetDir:            getEnv("DATASET_DIR", "./cache"),
		DatasetBaseURL:        getEnv("DATASET_BASE_URL", "http://localhost:5000/cache"),
		DBPath:                getEnv("DB_PATH", "./data/database.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		CacheTTL:              getDuration("CACHE_TTL", 10*time.Minute),
		LoadTimeout:           getDuration("LOAD_TIMEOUT", 30*time.Second),
		SessionIdleTTL:        getDuration("SESSION_IDLE_TTL", 30*time.Minute),
		ResidualPolicy:        getEnv("RESIDUAL_POLICY", "last_category"),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		HTTPPort:              getInt("HTTP_PORT", 8080),
		UploadURL:             os.Getenv("UPLOAD_URL"),
	}
}

// Validate reports settings the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatasetSource {
	case SourceDir:
		if c.DatasetDir == "" {
			errs = append(errs, errors.New("DATASET_DIR is required for the dir source"))
		}
	case SourceHTTP:
		if c.DatasetBaseURL == "" {
			errs = append(errs, errors.New("DATASET_BASE_URL is required for the http source"))
		}
	case SourceSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATASET_SOURCE %q", c.DatasetSource))
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort))
	}
	return errors.Join(errs...)
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
