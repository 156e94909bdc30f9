package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDatasetPath           = "cleaned_data.csv"
	DefaultSessionTTLSeconds     = 60 * 60 * 24
	DefaultViewCacheSizeMB       = 32
	DefaultExportRateLimitPerMin = 30
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// dataset
	DatasetPath string `toml:"dataset_path"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// sessions & caching
	SessionTTLSeconds int `toml:"session_ttl_seconds"`
	ViewCacheSizeMB   int `toml:"view_cache_size_mb"`
	// redis, optional: shared sessions and export rate limiting
	RedisEnabled          bool   `toml:"redis_enabled"`
	RedisHost             string `toml:"redis_host"`
	RedisPort             string `toml:"redis_port"`
	ExportRateLimitPerMin int    `toml:"export_rate_limit_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env,
// with defaults applied to unset values.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatasetPath == "" {
		c.DatasetPath = DefaultDatasetPath
	}
	if c.SessionTTLSeconds <= 0 {
		c.SessionTTLSeconds = DefaultSessionTTLSeconds
	}
	if c.ViewCacheSizeMB <= 0 {
		c.ViewCacheSizeMB = DefaultViewCacheSizeMB
	}
	if c.ExportRateLimitPerMin <= 0 {
		c.ExportRateLimitPerMin = DefaultExportRateLimitPerMin
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RedisEnabled && (c.RedisHost == "" || c.RedisPort == "") {
		return errors.New("redis enabled but redis host/port not set")
	}
	return nil
}
