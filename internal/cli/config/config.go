// Package config loads the aql CLI configuration from aql.yaml, AQL_ environment
// variables and defaults, in that order of precedence after flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/artifactql/aql/pkg/domain"
)

// EnvPrefix prefixes every environment override, e.g. AQL_DATABASE_DSN
const EnvPrefix = "AQL"

// Config represents the aql configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Query    QueryConfig    `mapstructure:"query"`
}

// DatabaseConfig selects the row source
type DatabaseConfig struct {
	// Driver is one of sqlite3, postgres, pgx (database/sql) or pgxpool (native pool)
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig configures the plan cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig locates the Redis server of the redis cache backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueryConfig holds compiler and execution limits
type QueryConfig struct {
	// Root is the domain relative query text starts from. Empty means the text names it.
	Root         string        `mapstructure:"root"`
	DefaultLimit int64         `mapstructure:"default_limit"`
	MaxJoins     int           `mapstructure:"max_joins"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

var (
	drivers       = []string{"sqlite3", "postgres", "pgx", "pgxpool"}
	cacheBackends = []string{"none", "memory", "redis"}
	logLevels     = []string{"debug", "info", "warn", "error", "none"}
	logFormats    = []string{"text", "json"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "aql.db")
	v.SetDefault("database.max_open_conns", 4)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.prefix", "aql:plan:")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("query.root", "")
	v.SetDefault("query.default_limit", 1000)
	v.SetDefault("query.max_joins", 8)
	v.SetDefault("query.timeout", 30*time.Second)
}

// Load reads the configuration. An explicit path must exist; without one aql.yaml is
// looked up in the working directory and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and bounds
func (c *Config) Validate() error {
	if !oneOf(c.Database.Driver, drivers) {
		return fmt.Errorf("database.driver must be one of %s, got: %q", strings.Join(drivers, ", "), c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns must not be negative, got: %d", c.Database.MaxOpenConns)
	}
	if !oneOf(c.Log.Level, logLevels) {
		return fmt.Errorf("log.level must be one of %s, got: %q", strings.Join(logLevels, ", "), c.Log.Level)
	}
	if !oneOf(c.Log.Format, logFormats) {
		return fmt.Errorf("log.format must be one of %s, got: %q", strings.Join(logFormats, ", "), c.Log.Format)
	}
	if !oneOf(c.Cache.Backend, cacheBackends) {
		return fmt.Errorf("cache.backend must be one of %s, got: %q", strings.Join(cacheBackends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	if c.Query.Root != "" {
		if _, ok := domain.Default().Domain(domain.ID(c.Query.Root)); !ok {
			return fmt.Errorf("query.root must be one of %s, got: %q",
				strings.Join(domain.Default().Names(), ", "), c.Query.Root)
		}
	}
	if c.Query.DefaultLimit < 0 {
		return fmt.Errorf("query.default_limit must not be negative, got: %d", c.Query.DefaultLimit)
	}
	if c.Query.MaxJoins < 0 {
		return fmt.Errorf("query.max_joins must not be negative, got: %d", c.Query.MaxJoins)
	}
	return nil
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
