package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel         string `toml:"log_level"`
	LogsPath         string `toml:"logs_path"`
	LogToStdout      bool   `toml:"log_to_stdout"`
	LogFormatJSON    bool   `toml:"log_format_json"`
	LogFileMaxSizeMB int    `toml:"log_file_max_size_mb"`
	LogFileBackups   int    `toml:"log_file_backups"`
	// http
	MaxRequestBodyKB   int64    `toml:"max_request_body_kb"`
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	SentryEnabled         bool   `toml:"sentry_enabled"`
	// gymstats
	FinishRateLimitAllowedPerMin int      `toml:"finish_rate_limit_allowed_per_min"`
	SessionXPAward               int      `toml:"session_xp_award"`
	BenchmarkCacheSizeMB         int      `toml:"benchmark_cache_size_mb"`
	BenchmarkCacheTTL            Duration `toml:"benchmark_cache_ttl"`
}

// Duration reads durations written as strings, like "15m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the config of the given environment,
// with defaults applied to unset values.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.LogFileMaxSizeMB <= 0 {
		c.LogFileMaxSizeMB = 50
	}
	if c.MaxRequestBodyKB <= 0 {
		c.MaxRequestBodyKB = 512
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PostgresMaxConns <= 0 {
		c.PostgresMaxConns = 20
	}
	if c.FinishRateLimitAllowedPerMin <= 0 {
		c.FinishRateLimitAllowedPerMin = 30
	}
	if c.BenchmarkCacheSizeMB <= 0 {
		c.BenchmarkCacheSizeMB = 8
	}
	if c.BenchmarkCacheTTL.Duration <= 0 {
		c.BenchmarkCacheTTL.Duration = 15 * time.Minute
	}
}
