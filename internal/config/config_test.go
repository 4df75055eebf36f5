package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/gymstats/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
environment = "development"
host = "localhost"
port = 9000
log_level = "debug"
logs_path = ""
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "gymstats_db"
redis_host = "localhost"
redis_port = "6379"
session_xp_award = 60
benchmark_cache_ttl = "5m"

[production]
environment = "production"
port = 443
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "gymstats_db"
postgres_max_conns = 50
sentry_enabled = true
finish_rate_limit_allowed_per_min = 10
log_format_json = true
log_file_backups = 30
cors_allowed_origins = ["https://gymstats.app"]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := config.Load("dev", writeConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "gymstats_db", cfg.PostgresDBName)
	assert.Equal(t, 60, cfg.SessionXPAward)
	assert.Equal(t, 5*time.Minute, cfg.BenchmarkCacheTTL.Duration)
	// defaults
	assert.Equal(t, "postgres", cfg.PostgresUser)
	assert.Equal(t, int32(20), cfg.PostgresMaxConns)
	assert.Equal(t, 30, cfg.FinishRateLimitAllowedPerMin)
	assert.Equal(t, 8, cfg.BenchmarkCacheSizeMB)
	assert.Equal(t, 50, cfg.LogFileMaxSizeMB)
	assert.Equal(t, int64(512), cfg.MaxRequestBodyKB)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := config.Load("production", writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, int32(50), cfg.PostgresMaxConns)
	assert.Equal(t, 10, cfg.FinishRateLimitAllowedPerMin)
	assert.Equal(t, 15*time.Minute, cfg.BenchmarkCacheTTL.Duration)
	assert.Equal(t, 0, cfg.SessionXPAward)
	assert.True(t, cfg.LogFormatJSON)
	assert.Equal(t, 30, cfg.LogFileBackups)
	assert.Equal(t, []string{"https://gymstats.app"}, cfg.CorsAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	path := writeConfig(t)

	_, err := config.Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = config.Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	onlyDev := filepath.Join(t.TempDir(), "dev_only.toml")
	require.NoError(t, os.WriteFile(onlyDev, []byte("[development]\nport = 1\n"), 0o600))
	_, err = config.Load("prod", onlyDev)
	assert.EqualError(t, err, "no config for env: prod")
}
