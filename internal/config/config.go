package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvDevelopment is the Environment value under which the cache disable
// switch is honoured.
const EnvDevelopment = "development"

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	KeyPrefix     string        `yaml:"key_prefix"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
}

// PostgresConfig holds the relational store settings
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// CacheConfig controls the response cache middleware
type CacheConfig struct {
	// Disabled bypasses the cache, but only when Environment is development.
	Disabled  bool          `yaml:"disabled"`
	OpTimeout time.Duration `yaml:"op_timeout"`
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Secret      string   `yaml:"secret"`
	Issuer      string   `yaml:"issuer"`
	PublicPaths []string `yaml:"public_paths"`
}

// ObservabilityConfig holds tracing and metrics settings
type ObservabilityConfig struct {
	TracingEnabled bool    `yaml:"tracing_enabled"`
	Exporter       string  `yaml:"exporter"`
	Endpoint       string  `yaml:"endpoint"`
	SampleRate     float64 `yaml:"sample_rate"`
	MetricsEnabled bool    `yaml:"metrics_enabled"`
}

// LoggingConfig holds operational logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the central configuration struct embedding all component configs
type Config struct {
	Environment   string              `yaml:"environment"`
	Server        ServerConfig        `yaml:"server"`
	Redis         RedisConfig         `yaml:"redis"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	Cache         CacheConfig         `yaml:"cache"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Server: ServerConfig{
			HTTPAddr:        ":3001",
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			KeyPrefix:     "edda:",
			ProbeInterval: 5 * time.Second,
		},
		Cache: CacheConfig{
			OpTimeout: 200 * time.Millisecond,
		},
		Auth: AuthConfig{
			Enabled:     true,
			PublicPaths: []string{"/health", "/metrics"},
		},
		Observability: ObservabilityConfig{
			Exporter:       "otlp-http",
			Endpoint:       "localhost:4318",
			SampleRate:     1.0,
			MetricsEnabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("EDDA_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("EDDA_HTTP_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("EDDA_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("EDDA_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("EDDA_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("EDDA_POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("EDDA_DISABLE_CACHE"); v != "" {
		cfg.Cache.Disabled = parseBool(v)
	}
	if v := os.Getenv("EDDA_CACHE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.OpTimeout = d
		}
	}
	if v := os.Getenv("EDDA_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("EDDA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EDDA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("EDDA_OTLP_ENDPOINT"); v != "" {
		cfg.Observability.Endpoint = v
		cfg.Observability.TracingEnabled = true
	}
}

// CacheBypassed reports whether the development-only cache disable switch
// is active.
func (c *Config) CacheBypassed() bool {
	return c.Environment == EnvDevelopment && c.Cache.Disabled
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
