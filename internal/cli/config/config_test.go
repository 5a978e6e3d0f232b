package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("expected default driver sqlite3, got %s", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "aql.db" {
		t.Errorf("expected default dsn aql.db, got %s", cfg.Database.DSN)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected default cache backend memory, got %s", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected default cache ttl 10m, got %s", cfg.Cache.TTL)
	}
	if cfg.Query.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %s", cfg.Query.Timeout)
	}
	if cfg.Query.MaxJoins != 8 {
		t.Errorf("expected default max joins 8, got %d", cfg.Query.MaxJoins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
database:
  driver: postgres
  dsn: postgres://localhost/aql
  max_open_conns: 10
log:
  level: debug
  format: json
cache:
  backend: redis
  ttl: 1m
  redis:
    addr: redis:6379
    db: 2
query:
  root: builds
  default_limit: 50
  timeout: 5s
`
	if err := os.WriteFile(filepath.Join(dir, "aql.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Database.Driver != "postgres" || cfg.Database.MaxOpenConns != 10 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Cache.TTL != time.Minute || cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Query.Root != "builds" || cfg.Query.DefaultLimit != 50 || cfg.Query.Timeout != 5*time.Second {
		t.Errorf("unexpected query config: %+v", cfg.Query)
	}
	// untouched keys keep their defaults
	if cfg.Query.MaxJoins != 8 {
		t.Errorf("expected default max joins 8, got %d", cfg.Query.MaxJoins)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())

	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("database:\n  dsn: other.db\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.DSN != "other.db" {
		t.Errorf("expected dsn other.db, got %s", cfg.Database.DSN)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AQL_DATABASE_DSN", "env.db")
	t.Setenv("AQL_QUERY_MAX_JOINS", "3")
	t.Setenv("AQL_CACHE_BACKEND", "none")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.DSN != "env.db" {
		t.Errorf("expected dsn from environment, got %s", cfg.Database.DSN)
	}
	if cfg.Query.MaxJoins != 3 {
		t.Errorf("expected max joins 3 from environment, got %d", cfg.Query.MaxJoins)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("expected cache backend none, got %s", cfg.Cache.Backend)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite3", DSN: "aql.db"},
			Log:      LogConfig{Level: "warn", Format: "text"},
			Cache:    CacheConfig{Backend: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"cache backend", func(c *Config) { c.Cache.Backend = "disk" }, "cache.backend"},
		{"redis addr", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis.addr"},
		{"root", func(c *Config) { c.Query.Root = "artefacts" }, "query.root"},
		{"limit", func(c *Config) { c.Query.DefaultLimit = -1 }, "query.default_limit"},
		{"joins", func(c *Config) { c.Query.MaxJoins = -1 }, "query.max_joins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
