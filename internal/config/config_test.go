package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DATASET_SOURCE", "REDIS_ADDR", "CACHE_TTL", "SESSION_IDLE_TTL", "GRPC_PORT", "HTTP_PORT", "UPLOAD_URL"} {
		t.Setenv(k, "")
	}

	cfg := LoadFromEnv()
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, SourceDir, cfg.DatasetSource)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "sqlite")
	t.Setenv("DB_PATH", "/srv/survey.db")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("LOAD_TIMEOUT", "not-a-duration")
	t.Setenv("GRPC_PORT", "abc")
	t.Setenv("GRPC_REFLECTION_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := LoadFromEnv()
	assert.Equal(t, SourceSQLite, cfg.DatasetSource)
	assert.Equal(t, "/srv/survey.db", cfg.DBPath)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 30*time.Second, cfg.LoadTimeout)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.True(t, cfg.GRPCReflectionEnabled)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatasetSource: "ftp", HTTPPort: 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_SOURCE")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{AppEnv: "production"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
