package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"MAPPER_APP_NAME",
	"MAPPER_APP_ENV",
	"MAPPER_APP_PORT",
	"MAPPER_LOG_LEVEL",
	"MAPPER_MAPPING_BACKEND",
	"MAPPER_MAPPING_PATH",
	"MAPPER_MAPPING_KEY",
	"MAPPER_CONVERT_WORKERS",
	"MAPPER_CONVERT_MAX_FILE_SIZE",
	"MAPPER_CONVERT_PROCEED_ANYWAY",
	"MAPPER_HTTP_MAX_BODY_SIZE",
	"MAPPER_STORAGE_BUCKET",
	"MAPPER_REDIS_HOST",
	"MAPPER_REDIS_PORT",
	"MAPPER_TELEMETRY_ENABLED",
	"MAPPER_TELEMETRY_COLLECTOR_ENDPOINT",
	"MAPPER_TELEMETRY_SAMPLING_RATIO",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "catalog-mapper", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, BackendFile, cfg.Mapping.Backend)
		assert.Equal(t, "mapping.json", cfg.Mapping.Path)
		assert.Equal(t, 4, cfg.Convert.Workers)
		assert.Equal(t, int64(50<<20), cfg.Convert.MaxFileSize)
		assert.False(t, cfg.Convert.ProceedAnyway)
		assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "us-east-1", cfg.Storage.Region)
		assert.Equal(t, 0, cfg.HTTP.ConvertRateLimit)
		assert.Equal(t, time.Minute, cfg.HTTP.ConvertRateWindow)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsInterval)
	})

	t.Run("loads telemetry settings from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_TELEMETRY_ENABLED", "true")
		t.Setenv("MAPPER_TELEMETRY_COLLECTOR_ENDPOINT", "otel:4317")
		t.Setenv("MAPPER_TELEMETRY_SAMPLING_RATIO", "0.25")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "otel:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})

	t.Run("loads values from environment variables with MAPPER prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_APP_NAME", "test-mapper")
		t.Setenv("MAPPER_APP_PORT", "9000")
		t.Setenv("MAPPER_MAPPING_BACKEND", "Redis")
		t.Setenv("MAPPER_MAPPING_KEY", "lr:mapping")
		t.Setenv("MAPPER_CONVERT_WORKERS", "8")
		t.Setenv("MAPPER_CONVERT_PROCEED_ANYWAY", "true")
		t.Setenv("MAPPER_REDIS_HOST", "cache.local")
		t.Setenv("MAPPER_REDIS_PORT", "6380")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-mapper", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, BackendRedis, cfg.Mapping.Backend)
		assert.Equal(t, "lr:mapping", cfg.Mapping.Key)
		assert.Equal(t, 8, cfg.Convert.Workers)
		assert.True(t, cfg.Convert.ProceedAnyway)
		assert.Equal(t, "cache.local:6380", cfg.Redis.Addr())
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_MAPPING_BACKEND", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapping.backend must be one of")
	})

	t.Run("s3 backend requires bucket", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_MAPPING_BACKEND", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket is required")

		t.Setenv("MAPPER_STORAGE_BUCKET", "catalogs")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "catalogs", cfg.Storage.Bucket)
	})

	t.Run("zero workers uses default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_CONVERT_WORKERS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Convert.Workers)
	})

	t.Run("validates workers cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_CONVERT_WORKERS", "-2")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "convert.workers must be positive")
	})

	t.Run("body limit must fit a file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_HTTP_MAX_BODY_SIZE", "1024")
		t.Setenv("MAPPER_CONVERT_MAX_FILE_SIZE", "2048")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be smaller than")
	})

	t.Run("memory backend is rejected in production", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPPER_APP_ENV", "production")
		t.Setenv("MAPPER_MAPPING_BACKEND", "memory")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed in production")
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mapper.toml")
	content := `
[app]
name = "from-file"

[mapping]
backend = "memory"

[convert]
workers = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, BackendMemory, cfg.Mapping.Backend)
	assert.Equal(t, 2, cfg.Convert.Workers)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("MAPPER_CONVERT_WORKERS", "6")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Convert.Workers)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}
